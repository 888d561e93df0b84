package board

import (
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// stubModule is a configurable module for routing tests.
type stubModule struct {
	in, out int
	process func(in, out []float64, tick Tick, mod *Modulation)
	freq    float64
	resets  int
}

func newStub(in, out int) *stubModule { return &stubModule{in: in, out: out} }

func (s *stubModule) Kind() string { return "stub" }
func (s *stubModule) Inputs() int  { return s.in }
func (s *stubModule) Outputs() int { return s.out }

func (s *stubModule) Process(in, out []float64, tick Tick, mod *Modulation) {
	if s.process != nil {
		s.process(in, out, tick, mod)
		return
	}
	core.Zero(out)
}

func (s *stubModule) UpdateFrequency(freq float64) { s.freq = freq }
func (s *stubModule) Reset()                       { s.resets++ }
func (s *stubModule) Clone() Module                { c := *s; return &c }
func (s *stubModule) Params() Params               { return NewParams("stub") }

// constant returns a stub that emits v on every output.
func constant(v float64, outputs int) *stubModule {
	s := newStub(0, outputs)
	s.process = func(_, out []float64, _ Tick, _ *Modulation) { core.Fill(out, v) }
	return s
}

func mustGraph(t testing.TB, nodes []Node, conns []Connection) *Graph {
	t.Helper()

	g, err := NewGraph(nodes, conns)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

func mustBoard(t testing.TB, g *Graph, sampleRate float64, opts ...Option) *Board {
	t.Helper()

	cfg := core.ApplyOptions(core.WithSampleRate(sampleRate))
	b, err := NewBoard(g, cfg, opts...)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

// render collects n left-channel samples.
func render(b *Board, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i], _ = b.Next()
	}
	return out
}

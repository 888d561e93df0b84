package board

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// KindMixer is the registry tag of Mixer.
const KindMixer = "mixer"

// Mixer applies a gain to each input, sums them and writes the total to
// every output scaled by that output's gain. It keeps no state.
type Mixer struct {
	inputGains  []float64
	outputGains []float64
}

// NewMixer returns a mixer with one input per input gain and one output per
// output gain. The slices are copied.
func NewMixer(inputGains, outputGains []float64) (*Mixer, error) {
	for i, g := range inputGains {
		if !core.IsFinite(g) {
			return nil, invalidParam(KindMixer, "inputGains", "element %d not finite: %v", i, g)
		}
	}
	for i, g := range outputGains {
		if !core.IsFinite(g) {
			return nil, invalidParam(KindMixer, "outputGains", "element %d not finite: %v", i, g)
		}
	}

	return &Mixer{
		inputGains:  append([]float64{}, inputGains...),
		outputGains: append([]float64{}, outputGains...),
	}, nil
}

// NewUnityMixer returns a mixer with all gains set to 1.
func NewUnityMixer(inputs, outputs int) *Mixer {
	m := &Mixer{
		inputGains:  make([]float64, max(inputs, 0)),
		outputGains: make([]float64, max(outputs, 0)),
	}
	core.Fill(m.inputGains, 1)
	core.Fill(m.outputGains, 1)
	return m
}

func (m *Mixer) Kind() string { return KindMixer }
func (m *Mixer) Inputs() int  { return len(m.inputGains) }
func (m *Mixer) Outputs() int { return len(m.outputGains) }

func (m *Mixer) Process(in, out []float64, _ Tick, _ *Modulation) {
	total := 0.0
	for i, x := range in {
		total += x * m.inputGains[i]
	}
	if len(out) > 0 {
		vecmath.ScaleBlock(out, m.outputGains, total)
	}
}

func (m *Mixer) UpdateFrequency(float64) {}
func (m *Mixer) Reset()                  {}

func (m *Mixer) Clone() Module {
	c, _ := NewMixer(m.inputGains, m.outputGains)
	return c
}

func (m *Mixer) Params() Params {
	p := NewParams(KindMixer)
	p.Vec["inputGains"] = append([]float64{}, m.inputGains...)
	p.Vec["outputGains"] = append([]float64{}, m.outputGains...)
	return p
}

func mixerFactory(_ Context, p Params) (Module, error) {
	in, err := p.Floats("inputGains")
	if err != nil {
		return nil, err
	}
	out, err := p.Floats("outputGains")
	if err != nil {
		return nil, err
	}
	return NewMixer(in, out)
}

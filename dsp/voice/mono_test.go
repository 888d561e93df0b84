package voice

import (
	"slices"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/board"
	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/internal/testutil"
)

func newBoard(t testing.TB, nodes []board.Node) *board.Board {
	t.Helper()

	g, err := board.NewGraph(nodes, nil)
	if err != nil {
		t.Fatal(err)
	}

	b, err := board.NewBoard(g, core.ApplyOptions(core.WithSampleRate(1000)))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// frequencies renders n samples one at a time and records the base
// frequency used for each.
func frequencies(m *Mono, n int) []float64 {
	out := make([]float64, n)
	buf := make([]float64, 2)
	for i := range out {
		m.FillBuffer(buf, 0, 2, 1)
		out[i] = m.Board().BaseFrequency()
	}
	return out
}

func TestMonoGlideRamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
	}{
		{name: "up", from: 60, to: 64},
		{name: "down", from: 72, to: 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			const glideMs = 50 // 50 samples at 1 kHz

			m := NewMono(newBoard(t, nil), glideMs)
			m.NoteOn(tt.from)

			start := core.NoteFrequency(tt.from)
			dest := core.NoteFrequency(tt.to)
			if got := m.Board().BaseFrequency(); got != start {
				t.Fatalf("jump from silence: base = %v, want %v", got, start)
			}

			m.NoteOn(tt.to)
			got := frequencies(m, 80)

			testutil.RequireMonotonic(t, append([]float64{start}, got...))
			lo, hi := min(start, dest), max(start, dest)
			testutil.RequireInRange(t, got, lo, hi)

			if got[glideMs-1] != dest {
				t.Fatalf("base after %d samples = %v, want %v", glideMs, got[glideMs-1], dest)
			}
			if got[glideMs-2] == dest {
				t.Errorf("arrived early at sample %d", glideMs-2)
			}
			for i, v := range got[glideMs:] {
				if v != dest {
					t.Fatalf("sample %d left the destination: %v", glideMs+i, v)
				}
			}
		})
	}
}

func TestMonoGlideModifier(t *testing.T) {
	t.Parallel()

	// Halving the rate doubles the glide time.
	slow, err := board.NewConstant(2, 1)
	if err != nil {
		t.Fatal(err)
	}

	m := NewMono(newBoard(t, []board.Node{{Module: slow, Bus: board.BusGlide}}), 20)
	m.NoteOn(60)
	m.NoteOn(62)

	got := frequencies(m, 50)
	dest := core.NoteFrequency(62)

	// The first sample still uses the modifier of the previous pass (1),
	// every later one moves half a step: 1 + 38·0.5 = 20 steps.
	if got[37] == dest {
		t.Errorf("arrived too early: %v", got[:39])
	}
	if got[38] != dest {
		t.Errorf("base at sample 38 = %v, want %v", got[38], dest)
	}
}

func TestMonoNoGlideJumps(t *testing.T) {
	t.Parallel()

	m := NewMono(newBoard(t, nil), 0)
	m.NoteOn(60)
	m.NoteOn(67)

	if got, want := m.Board().BaseFrequency(), core.NoteFrequency(67); got != want {
		t.Fatalf("base = %v, want %v", got, want)
	}
}

func TestMonoNoteStack(t *testing.T) {
	t.Parallel()

	m := NewMono(newBoard(t, nil), 0)

	m.NoteOn(60)
	m.NoteOn(64)
	m.NoteOn(67)
	m.NoteOn(64)

	if got, want := m.Notes(), []int{60, 67, 64}; !slices.Equal(got, want) {
		t.Fatalf("Notes() = %v, want %v", got, want)
	}

	// Releasing the top note falls back to the most recent remaining one.
	m.NoteOff(64)
	if got, want := m.Board().BaseFrequency(), core.NoteFrequency(67); got != want {
		t.Fatalf("after release base = %v, want %v", got, want)
	}

	// Releasing a note below the top retargets to the unchanged top.
	m.NoteOff(60)
	if got, want := m.Destination(), core.NoteFrequency(67); got != want {
		t.Fatalf("Destination() = %v, want %v", got, want)
	}
	if !m.Board().IsNoteOn() {
		t.Fatal("board released while a note is held")
	}

	// Unknown notes are ignored.
	m.NoteOff(10)
	if !m.Board().IsNoteOn() {
		t.Fatal("releasing an unheld note silenced the voice")
	}

	m.NoteOff(67)
	if m.Board().IsNoteOn() || m.Sounding() {
		t.Fatal("voice still sounding after last release")
	}
}

func TestMonoLegatoKeepsEnvelope(t *testing.T) {
	t.Parallel()

	m := NewMono(newBoard(t, nil), 10)
	m.NoteOn(60)
	frequencies(m, 30)

	before := m.Board().Time()
	m.NoteOn(62)
	if m.Board().Time() != before {
		t.Fatalf("legato note restarted the note timer: %d -> %d", before, m.Board().Time())
	}
	if m.Board().Note() != 60 {
		t.Errorf("legato note retriggered the board: note = %d", m.Board().Note())
	}
}

func TestMonoFillBuffer(t *testing.T) {
	t.Parallel()

	k, err := board.NewConstant(-0.5, 1)
	if err != nil {
		t.Fatal(err)
	}

	m := NewMono(newBoard(t, []board.Node{{Module: k, Bus: board.BusLeft}}), 0)

	buf := []float64{9, 9, 9, 9, 9, 9, 9}
	m.FillBuffer(buf, 1, 5, 0.5)

	// Two whole frames from offset 1; the odd float and the rest untouched.
	want := []float64{9, 0.25, 0.5, 0.25, 0.5, 9, 9}
	testutil.RequireSliceNearlyEqual(t, buf, want, 0)

	if l, r := m.Peak(); l != 0.5 || r != 1 {
		t.Errorf("Peak() = (%v, %v), want (0.5, 1)", l, r)
	}
}

func TestMonoModulationForwarding(t *testing.T) {
	t.Parallel()

	m := NewMono(newBoard(t, nil), 0)
	m.PitchWheel(100)
	m.ControlChange(7, 3)

	if m.Board().PitchWheel() != 100 || m.Board().Controller(7) != 3 {
		t.Fatalf("modulation not forwarded: wheel=%d cc7=%d", m.Board().PitchWheel(), m.Board().Controller(7))
	}
}

func TestMonoResetAndClone(t *testing.T) {
	t.Parallel()

	m := NewMono(newBoard(t, nil), 25)
	m.NoteOn(60)
	m.NoteOn(61)
	frequencies(m, 3)

	c := m.Clone()
	if c.Sounding() || c.GlideTime() != 25 || c.Board() == m.Board() {
		t.Fatal("clone is not a fresh voice")
	}

	m.Reset()
	if m.Sounding() || m.Board().IsNoteOn() || m.Board().BaseFrequency() != 0 {
		t.Fatal("Reset left the voice sounding")
	}
}

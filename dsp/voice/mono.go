package voice

import (
	"math"
	"slices"

	"github.com/cwbudde/algo-synth/dsp/board"
	"github.com/cwbudde/algo-synth/dsp/core"
)

// Mono is a monophonic voice with portamento. Note events and rendering
// must be serialised by the caller.
type Mono struct {
	board     *board.Board
	glideTime float64
	glide     float64 // samples per full glide

	notes []int
	dest  float64
	step  float64
}

// NewMono wraps b. glideTime is the portamento duration in milliseconds;
// zero or less makes note changes jump immediately.
func NewMono(b *board.Board, glideTime float64) *Mono {
	return &Mono{
		board:     b,
		glideTime: glideTime,
		glide:     glideTime * b.SampleRate() / 1000,
		notes:     make([]int, 0, 16),
	}
}

// Board returns the board the voice plays.
func (m *Mono) Board() *board.Board { return m.board }

// GlideTime returns the portamento duration in milliseconds.
func (m *Mono) GlideTime() float64 { return m.glideTime }

// Notes returns the held notes, most recent last.
func (m *Mono) Notes() []int { return slices.Clone(m.notes) }

// Sounding reports whether any note is held.
func (m *Mono) Sounding() bool { return len(m.notes) > 0 }

// Destination returns the frequency the voice is gliding towards.
func (m *Mono) Destination() float64 { return m.dest }

// NoteOn presses note. From silence the voice jumps to the note and
// restarts the board's envelopes; otherwise it glides to the new note
// without retriggering.
func (m *Mono) NoteOn(note int) {
	if !m.Sounding() {
		m.board.NoteOn(note)
		m.notes = append(m.notes, note)
		m.dest = m.board.BaseFrequency()
		m.step = 0
		return
	}

	m.remove(note)
	m.notes = append(m.notes, note)
	m.retarget(note)
}

// NoteOff releases note. If other notes are still held the voice glides to
// the most recent of them; otherwise the board enters its release phase.
func (m *Mono) NoteOff(note int) {
	if !m.remove(note) {
		return
	}

	if m.Sounding() {
		m.retarget(m.notes[len(m.notes)-1])
		return
	}

	m.board.NoteOff()
}

// PitchWheel forwards the raw 14-bit wheel position.
func (m *Mono) PitchWheel(value int) { m.board.SetPitchWheel(value) }

// ControlChange forwards a MIDI controller value.
func (m *Mono) ControlChange(controller, value int) { m.board.SetController(controller, value) }

func (m *Mono) remove(note int) bool {
	i := slices.Index(m.notes, note)
	if i < 0 {
		return false
	}
	m.notes = slices.Delete(m.notes, i, i+1)
	return true
}

func (m *Mono) retarget(note int) {
	m.dest = core.NoteFrequency(note)
	if m.glide <= 0 {
		m.step = 0
		m.board.SetBaseFrequency(m.dest)
		return
	}
	m.step = (m.dest - m.board.BaseFrequency()) / m.glide
}

// advance moves the base frequency one sample towards the destination.
func (m *Mono) advance() {
	if m.step == 0 {
		return
	}

	mod := m.board.GlideModifier()
	if !(mod > 0) || math.IsInf(mod, 0) {
		m.arrive()
		return
	}

	delta := m.step / mod
	next := m.board.BaseFrequency() + delta
	remaining := m.dest - next

	// Reached, passed, or within rounding of the destination.
	if delta > 0 && remaining <= 1e-9*delta || delta < 0 && remaining >= 1e-9*delta {
		m.arrive()
		return
	}

	m.board.SetBaseFrequency(next)
}

func (m *Mono) arrive() {
	m.step = 0
	m.board.SetBaseFrequency(m.dest)
}

// FillBuffer renders count interleaved stereo floats into buf starting at
// offset, scaled by gain. A trailing odd float is left untouched.
func (m *Mono) FillBuffer(buf []float64, offset, count int, gain float64) {
	end := min(offset+count, len(buf))
	for i := offset; i+1 < end; i += 2 {
		m.advance()
		l, r := m.board.Next()
		buf[i] = l * gain
		buf[i+1] = r * gain
	}
}

// Peak returns the board's peak meter before the render gain.
func (m *Mono) Peak() (left, right float64) { return m.board.Peak() }

// Reset silences the voice and returns its board to the initial state.
func (m *Mono) Reset() {
	m.notes = m.notes[:0]
	m.dest = 0
	m.step = 0
	m.board.Reset()
}

// Clone returns a silent voice over a fresh instance of the same board.
func (m *Mono) Clone() *Mono {
	return NewMono(m.board.Clone(), m.glideTime)
}

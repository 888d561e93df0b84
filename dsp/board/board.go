package board

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Option configures a Board.
type Option func(*Board)

// WithDiagnostics sets the sink for failures during streaming.
func WithDiagnostics(fn func(error)) Option {
	return func(b *Board) {
		if fn != nil {
			b.diag = fn
		}
	}
}

// WithLogger reports streaming failures as warnings on logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		if logger != nil {
			b.diag = loggerSink(logger)
		}
	}
}

func loggerSink(logger *slog.Logger) func(error) {
	return func(err error) {
		logger.Warn("board: streaming failure", "err", err)
	}
}

// Board is one playable instance of a Graph. A Board is not safe for
// concurrent use; it is driven by a single render goroutine.
type Board struct {
	graph *Graph
	cfg   core.Config

	modules []Module
	buses   []Bus
	routes  [][]route
	inputs  [][]float64
	outputs [][]float64
	mod     Modulation

	baseFrequency float64
	pitch         float64
	pitchRejected bool
	frequency     float64
	glideModifier float64

	samples int64
	noteOn  bool
	note    int

	peakLeft, peakRight float64
	failures            int64
	diag                func(error)
}

// NewBoard instantiates g with fresh clones of its template modules.
func NewBoard(g *Graph, cfg core.Config, opts ...Option) (*Board, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidConfig)
	}
	if !(cfg.SampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %v", ErrInvalidConfig, cfg.SampleRate)
	}

	n := g.Len()
	b := &Board{
		graph:         g,
		cfg:           cfg,
		modules:       make([]Module, n),
		buses:         make([]Bus, n),
		routes:        g.routes,
		inputs:        make([][]float64, n),
		outputs:       make([][]float64, n),
		mod:           newModulation(cfg.PitchWheelRange),
		pitch:         1,
		glideModifier: 1,
		diag:          loggerSink(slog.Default()),
	}

	for i := range n {
		node := g.Node(i)
		m := node.Module.Clone()
		b.modules[i] = m
		b.buses[i] = node.Bus
		b.inputs[i] = make([]float64, m.Inputs())
		b.outputs[i] = make([]float64, m.Outputs())
	}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	b.broadcast()

	return b, nil
}

// Clone returns a fresh board over the same graph, configuration and
// diagnostic sink. Module state, notes and modulation are not copied.
func (b *Board) Clone() *Board {
	c, err := NewBoard(b.graph, b.cfg)
	if err != nil {
		// b was built from the same arguments.
		panic(err)
	}
	c.diag = b.diag
	return c
}

// Graph returns the template the board was built from.
func (b *Board) Graph() *Graph { return b.graph }

// Config returns the board configuration.
func (b *Board) Config() core.Config { return b.cfg }

// SampleRate returns the output sample rate in Hz.
func (b *Board) SampleRate() float64 { return b.cfg.SampleRate }

// Module returns the live module at evaluation position i.
func (b *Board) Module(i int) Module { return b.modules[i] }

// Next renders one stereo sample.
func (b *Board) Next() (left, right float64) {
	defer func() {
		if r := recover(); r != nil {
			left, right = b.fail(fmt.Errorf("%w: %v", ErrModulePanic, r))
		}
	}()

	tick := Tick{Time: b.Time(), NoteOn: b.noteOn}
	b.samples++

	mix := b.evaluate(tick, NewMix())

	left, right = mix.Stereo()
	if !core.IsFinite(left) || !core.IsFinite(right) {
		return b.fail(fmt.Errorf("%w: (%v, %v)", ErrNonFinite, left, right))
	}

	b.glideModifier = mix.Glide
	b.applyPitch(mix.Pitch)

	b.peakLeft = math.Max(b.peakLeft, math.Abs(left))
	b.peakRight = math.Max(b.peakRight, math.Abs(right))

	return left, right
}

// evaluate runs every module once in sorted order and returns the bus
// accumulators.
func (b *Board) evaluate(tick Tick, mix Mix) Mix {
	for _, in := range b.inputs {
		core.Zero(in)
	}

	for i, m := range b.modules {
		out := b.outputs[i]
		m.Process(b.inputs[i], out, tick, &b.mod)

		if bus := b.buses[i]; bus != BusNone {
			for _, v := range out {
				mix = mix.Combine(bus, v)
			}
			continue
		}

		for slot, r := range b.routes[i] {
			if r.dest >= 0 {
				b.inputs[r.dest][r.slot] = out[slot]
			}
		}
	}

	return mix
}

func (b *Board) fail(err error) (float64, float64) {
	b.failures++
	b.diag(err)
	return 0, 0
}

// applyPitch broadcasts a changed pitch-bus product. A product that is not
// a positive finite ratio is reported once and the previous pitch is kept.
func (b *Board) applyPitch(pitch float64) {
	if !(pitch > 0) || math.IsInf(pitch, 1) {
		if !b.pitchRejected {
			b.pitchRejected = true
			b.diag(fmt.Errorf("%w: %v", ErrInvalidPitch, pitch))
		}
		return
	}
	b.pitchRejected = false

	if pitch != b.pitch {
		b.pitch = pitch
		b.broadcast()
	}
}

func (b *Board) broadcast() {
	b.frequency = b.baseFrequency * b.pitch
	for _, m := range b.modules {
		m.UpdateFrequency(b.frequency)
	}
}

// NoteOn jumps to the note's frequency and restarts the note timer.
func (b *Board) NoteOn(note int) {
	b.SetBaseFrequency(core.NoteFrequency(note))
	b.note = note
	b.noteOn = true
	b.samples = 0
}

// NoteOff releases the note and restarts the note timer.
func (b *Board) NoteOff() {
	b.noteOn = false
	b.samples = 0
}

// IsNoteOn reports whether a note is held.
func (b *Board) IsNoteOn() bool { return b.noteOn }

// Note returns the last note passed to NoteOn.
func (b *Board) Note() int { return b.note }

// Time returns the milliseconds elapsed since the last note event, as seen
// by the next pass.
func (b *Board) Time() int64 {
	return int64(float64(b.samples) * 1000 / b.cfg.SampleRate)
}

// BaseFrequency returns the voice frequency before pitch modulation.
func (b *Board) BaseFrequency() float64 { return b.baseFrequency }

// SetBaseFrequency sets the voice frequency and broadcasts it to every
// module.
func (b *Board) SetBaseFrequency(freq float64) {
	b.baseFrequency = freq
	b.broadcast()
}

// Frequency returns the last broadcast frequency.
func (b *Board) Frequency() float64 { return b.frequency }

// GlideModifier returns the glide bus product of the last pass.
func (b *Board) GlideModifier() float64 { return b.glideModifier }

// SetPitchWheel stores the raw 14-bit wheel position.
func (b *Board) SetPitchWheel(value int) {
	b.mod.PitchWheel = value
}

// PitchWheel returns the raw wheel position.
func (b *Board) PitchWheel() int { return b.mod.PitchWheel }

// SetController stores the value of a MIDI controller. Invalid ids are
// ignored.
func (b *Board) SetController(id, value int) {
	if id < 0 || id >= ControllerCount {
		return
	}
	b.mod.Controllers[id] = value
}

// Controller returns the stored value of a MIDI controller.
func (b *Board) Controller(id int) int { return b.mod.Controller(id) }

// Peak returns the largest absolute sample seen on each channel.
func (b *Board) Peak() (left, right float64) {
	return b.peakLeft, b.peakRight
}

// ResetPeak clears the peak meter.
func (b *Board) ResetPeak() {
	b.peakLeft, b.peakRight = 0, 0
}

// Failures returns the number of samples replaced by silence.
func (b *Board) Failures() int64 { return b.failures }

// Reset returns the board to its freshly constructed state.
func (b *Board) Reset() {
	for i, m := range b.modules {
		m.Reset()
		core.Zero(b.inputs[i])
		core.Zero(b.outputs[i])
	}

	b.mod.reset()
	b.baseFrequency = 0
	b.pitch = 1
	b.pitchRejected = false
	b.glideModifier = 1
	b.samples = 0
	b.noteOn = false
	b.note = 0
	b.peakLeft, b.peakRight = 0, 0
	b.broadcast()
}

package board

import "github.com/cwbudde/algo-synth/dsp/core"

// KindEnvelope is the registry tag of Envelope.
const KindEnvelope = "envelope"

// Envelope is an attack/decay/sustain/release curve expressed as a gain
// offset in [-1, 0]: -1 is silence, 0 is full level. Times are in board
// ticks (milliseconds). The curve is driven only by the board's
// (time, noteOn) pair, so envelopes on one board stay phase-locked.
type Envelope struct {
	attack, decay, release int
	sustain                float64
	sampleRate             float64
	outputs                int

	on          []float64
	off         []float64
	releaseStep float64
	value       float64
}

// NewEnvelope precomputes the on and release curves. attack, decay and
// release are in milliseconds; sustain is a level in [0, 1].
func NewEnvelope(attack, decay int, sustain float64, release, outputs int, sampleRate float64) (*Envelope, error) {
	switch {
	case attack < 0 || attack > MaxStageMillis:
		return nil, invalidParam(KindEnvelope, "attack", "outside [0,%d]: %d", MaxStageMillis, attack)
	case decay < 0 || decay > MaxStageMillis:
		return nil, invalidParam(KindEnvelope, "decay", "outside [0,%d]: %d", MaxStageMillis, decay)
	case release < 0 || release > MaxStageMillis:
		return nil, invalidParam(KindEnvelope, "release", "outside [0,%d]: %d", MaxStageMillis, release)
	case !(sustain >= 0 && sustain <= 1):
		return nil, invalidParam(KindEnvelope, "sustain", "outside [0,1]: %v", sustain)
	case outputs < 0:
		return nil, invalidParam(KindEnvelope, "outputs", "negative: %d", outputs)
	case !(sampleRate > 0):
		return nil, invalidParam(KindEnvelope, "sampleRate", "must be > 0: %v", sampleRate)
	}

	e := &Envelope{
		attack:     attack,
		decay:      decay,
		release:    release,
		sustain:    sustain,
		sampleRate: sampleRate,
		outputs:    outputs,
		value:      -1,
	}
	e.on = e.onValues()
	e.off = e.offValues()
	e.releaseStep = e.releaseSlope()

	return e, nil
}

// NewGate returns an envelope that is 0 while a note is held and -1 from
// the first sample after release.
func NewGate(outputs int, sampleRate float64) (*Envelope, error) {
	return NewEnvelope(0, 0, 1, 0, outputs, sampleRate)
}

func (e *Envelope) onValues() []float64 {
	out := make([]float64, e.attack+e.decay)
	for t := range e.attack {
		out[t] = float64(t)/float64(e.attack) - 1
	}
	for t := e.attack; t < len(out); t++ {
		out[t] = -float64(t-e.attack) / float64(e.decay) * (1 - e.sustain)
	}
	return out
}

func (e *Envelope) offValues() []float64 {
	out := make([]float64, e.release)
	for t := range out {
		out[t] = e.sustain - float64(t)/float64(e.release)*e.sustain - 1
	}
	return out
}

// releaseSlope returns the per-sample increment applied after note-off.
// A zero release drops straight to silence; a zero sustain still ramps
// over the release time so a note released during attack fades out.
func (e *Envelope) releaseSlope() float64 {
	if e.release == 0 {
		return -1
	}

	depth := e.sustain
	if depth == 0 {
		depth = 1
	}

	return -depth / float64(e.release) / (e.sampleRate / 1000)
}

func (e *Envelope) Kind() string { return KindEnvelope }
func (e *Envelope) Inputs() int  { return 0 }
func (e *Envelope) Outputs() int { return e.outputs }

func (e *Envelope) Process(_, out []float64, tick Tick, _ *Modulation) {
	if tick.NoteOn {
		if tick.Time < int64(len(e.on)) {
			e.value = e.on[tick.Time]
		} else {
			e.value = e.sustain - 1
		}
	} else {
		e.value += e.releaseStep
		if e.value < -1 {
			e.value = -1
		}
	}
	core.Fill(out, e.value)
}

func (e *Envelope) UpdateFrequency(float64) {}

// Value returns the last computed offset.
func (e *Envelope) Value() float64 { return e.value }

// OnCurve returns a copy of the attack/decay table indexed by milliseconds.
func (e *Envelope) OnCurve() []float64 {
	return append([]float64(nil), e.on...)
}

// ReleaseCurve returns a copy of the release table indexed by milliseconds.
func (e *Envelope) ReleaseCurve() []float64 {
	return append([]float64(nil), e.off...)
}

func (e *Envelope) Reset() { e.value = -1 }

func (e *Envelope) Clone() Module {
	c := *e
	c.on = append([]float64(nil), e.on...)
	c.off = append([]float64(nil), e.off...)
	return &c
}

func (e *Envelope) Params() Params {
	p := NewParams(KindEnvelope)
	p.Num["attack"] = float64(e.attack)
	p.Num["decay"] = float64(e.decay)
	p.Num["sustain"] = e.sustain
	p.Num["release"] = float64(e.release)
	p.Num["outputs"] = float64(e.outputs)
	return p
}

func envelopeFactory(ctx Context, p Params) (Module, error) {
	attack, err := p.Int("attack")
	if err != nil {
		return nil, err
	}
	decay, err := p.Int("decay")
	if err != nil {
		return nil, err
	}
	sustain, err := p.Float("sustain")
	if err != nil {
		return nil, err
	}
	release, err := p.Int("release")
	if err != nil {
		return nil, err
	}
	outputs, err := p.Slots("outputs", 1)
	if err != nil {
		return nil, err
	}
	return NewEnvelope(attack, decay, sustain, release, outputs, ctx.SampleRate)
}

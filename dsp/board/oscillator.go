package board

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/osc"
)

// KindOscillator is the registry tag of Oscillator.
const KindOscillator = "oscillator"

// Oscillator emits a periodic waveform at the voice frequency shifted by a
// fixed number of half-tones. Its phase runs whether or not a note is
// held, so a retriggered note continues in phase; without a note it emits 0.
type Oscillator struct {
	wave    osc.Waveform
	outputs int
	offset  float64
	ratio   float64
	gain    float64
	freq    float64
}

// NewOscillator returns an oscillator driving a private clone of w.
func NewOscillator(w osc.Waveform, outputs int, halfToneOffset, gain float64) (*Oscillator, error) {
	if w == nil {
		return nil, invalidParam(KindOscillator, "waveform", "nil")
	}
	if outputs < 0 {
		return nil, invalidParam(KindOscillator, "outputs", "negative: %d", outputs)
	}
	if !core.IsFinite(halfToneOffset) {
		return nil, invalidParam(KindOscillator, "offset", "not finite: %v", halfToneOffset)
	}
	if !core.IsFinite(gain) {
		return nil, invalidParam(KindOscillator, "gain", "not finite: %v", gain)
	}

	return &Oscillator{
		wave:    w.Clone(),
		outputs: outputs,
		offset:  halfToneOffset,
		ratio:   core.SemitoneRatio(halfToneOffset),
		gain:    gain,
	}, nil
}

func (o *Oscillator) Kind() string { return KindOscillator }
func (o *Oscillator) Inputs() int  { return 0 }
func (o *Oscillator) Outputs() int { return o.outputs }

func (o *Oscillator) Process(_, out []float64, tick Tick, _ *Modulation) {
	v := o.wave.Next(o.freq) * o.gain
	if !tick.NoteOn {
		v = 0
	}
	core.Fill(out, v)
}

func (o *Oscillator) UpdateFrequency(freq float64) {
	o.freq = freq * o.ratio
}

// Frequency returns the shifted frequency the waveform runs at.
func (o *Oscillator) Frequency() float64 { return o.freq }

// Waveform returns the oscillator's generator.
func (o *Oscillator) Waveform() osc.Waveform { return o.wave }

func (o *Oscillator) Reset() {
	o.wave.Reset()
	o.freq = 0
}

func (o *Oscillator) Clone() Module {
	c := *o
	c.wave = o.wave.Clone()
	return &c
}

func (o *Oscillator) Params() Params {
	p := NewParams(KindOscillator)
	p.Str["waveform"] = o.wave.Name()
	p.Num["outputs"] = float64(o.outputs)
	p.Num["offset"] = o.offset
	p.Num["gain"] = o.gain
	return p
}

func oscillatorFactory(ctx Context, p Params) (Module, error) {
	w, err := osc.New(p.GetStr("waveform", osc.NameSine), ctx.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}

	outputs, err := p.Slots("outputs", 1)
	if err != nil {
		return nil, err
	}

	return NewOscillator(w, outputs, p.GetNum("offset", 0), p.GetNum("gain", 1))
}

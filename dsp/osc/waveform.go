package osc

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownWaveform is returned by New for an unregistered name.
var ErrUnknownWaveform = errors.New("osc: unknown waveform")

// Waveform is a phase-accumulating periodic signal generator.
type Waveform interface {
	// Name returns the registry name of the waveform.
	Name() string
	// Next returns the value at the current phase and then advances the
	// phase by one sample at freq Hz.
	Next(freq float64) float64
	// Phase returns the normalised phase in [0, 1).
	Phase() float64
	// Reset rewinds the phase to 0.
	Reset()
	// Clone returns an independent copy with the same phase.
	Clone() Waveform
}

// Names of the built-in waveforms.
const (
	NameSine     = "sine"
	NameSaw      = "saw"
	NameSquare   = "square"
	NameTriangle = "triangle"
)

type shape func(phase float64) float64

var shapes = map[string]shape{
	NameSine: func(p float64) float64 {
		return math.Sin(2 * math.Pi * p)
	},
	NameSaw: func(p float64) float64 {
		return 2*p - 1
	},
	NameSquare: func(p float64) float64 {
		if p < 0.5 {
			return 1
		}
		return -1
	},
	NameTriangle: func(p float64) float64 {
		if p < 0.5 {
			return 4*p - 1
		}
		return 3 - 4*p
	},
}

// Names returns the sorted names of the built-in waveforms.
func Names() []string {
	out := make([]string, 0, len(shapes))
	for n := range shapes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// New returns the named waveform running at sampleRate.
func New(name string, sampleRate float64) (Waveform, error) {
	fn, ok := shapes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWaveform, name)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("osc: sample rate must be > 0: %v", sampleRate)
	}
	return &phasor{name: name, shape: fn, invRate: 1 / sampleRate}, nil
}

// Sine returns a sine generator. It panics on a non-positive sample rate.
func Sine(sampleRate float64) Waveform {
	return mustNew(NameSine, sampleRate)
}

// Saw returns a rising sawtooth generator.
func Saw(sampleRate float64) Waveform {
	return mustNew(NameSaw, sampleRate)
}

// Square returns a 50% duty square generator.
func Square(sampleRate float64) Waveform {
	return mustNew(NameSquare, sampleRate)
}

// Triangle returns a triangle generator starting at its minimum.
func Triangle(sampleRate float64) Waveform {
	return mustNew(NameTriangle, sampleRate)
}

func mustNew(name string, sampleRate float64) Waveform {
	w, err := New(name, sampleRate)
	if err != nil {
		panic(err)
	}
	return w
}

type phasor struct {
	name    string
	shape   shape
	invRate float64
	phase   float64
}

func (p *phasor) Name() string { return p.name }

func (p *phasor) Phase() float64 { return p.phase }

func (p *phasor) Next(freq float64) float64 {
	v := p.shape(p.phase)
	p.phase += freq * p.invRate
	if p.phase >= 1 || p.phase < 0 {
		p.phase -= math.Floor(p.phase)
	}
	return v
}

func (p *phasor) Reset() { p.phase = 0 }

func (p *phasor) Clone() Waveform {
	c := *p
	return &c
}

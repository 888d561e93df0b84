// Package meter measures the level of rendered audio.
package meter

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Levels summarises one channel.
type Levels struct {
	Length        int
	Peak          float64
	RMS           float64
	DC            float64
	CrestFactor   float64 // peak / RMS, 0 for silence
	ZeroCrossings int
}

// PeakDB returns the peak level in dBFS.
func (l Levels) PeakDB() float64 { return core.LinearToDB(l.Peak) }

// RMSDB returns the RMS level in dBFS.
func (l Levels) RMSDB() float64 { return core.LinearToDB(l.RMS) }

// Measure computes the levels of signal in one pass.
func Measure(signal []float64) Levels {
	var m Meter
	m.Update(signal)
	return m.Levels()
}

// Meter accumulates levels over successive blocks.
type Meter struct {
	n        int
	sum      float64
	sumSq    float64
	peak     float64
	last     float64
	crossing int
}

// Update adds a block of samples.
func (m *Meter) Update(block []float64) {
	for _, x := range block {
		if m.n > 0 && m.last*x < 0 {
			m.crossing++
		}
		m.last = x
		m.n++
		m.sum += x
		m.sumSq += x * x
		m.peak = math.Max(m.peak, math.Abs(x))
	}
}

// Levels returns the levels seen since the last Reset.
func (m *Meter) Levels() Levels {
	if m.n == 0 {
		return Levels{}
	}

	l := Levels{
		Length:        m.n,
		Peak:          m.peak,
		RMS:           math.Sqrt(m.sumSq / float64(m.n)),
		DC:            m.sum / float64(m.n),
		ZeroCrossings: m.crossing,
	}
	if l.RMS > 0 {
		l.CrestFactor = l.Peak / l.RMS
	}
	return l
}

// Reset clears the accumulated levels.
func (m *Meter) Reset() { *m = Meter{} }

package fir

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// Filter implements a direct-form FIR filter using a circular-buffer history
// of raw input samples. The history length equals the kernel length.
type Filter struct {
	coeffs []float64
	delay  []float64
	pos    int
}

// New creates a FIR filter from the given coefficient slice.
// The coefficients are copied. The filter order is len(coeffs)-1.
func New(coeffs []float64) *Filter {
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &Filter{
		coeffs: c,
		delay:  make([]float64, len(coeffs)),
	}
}

// ProcessSample pushes x into the history and returns the convolution of
// the history with the kernel.
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.coeffs)
	if n == 0 {
		return 0
	}
	f.delay[f.pos] = x
	var y float64
	p := f.pos
	for k := range n {
		y += f.coeffs[k] * f.delay[p]
		p--
		if p < 0 {
			p = n - 1
		}
	}
	f.pos++
	if f.pos >= n {
		f.pos = 0
	}
	return core.FlushDenormals(y)
}

// Reset clears the history to zero.
func (f *Filter) Reset() {
	core.Zero(f.delay)
	f.pos = 0
}

// Clone returns a filter with the same kernel and an independent copy of
// the current history.
func (f *Filter) Clone() *Filter {
	c := New(f.coeffs)
	copy(c.delay, f.delay)
	c.pos = f.pos
	return c
}

// Len returns the kernel length.
func (f *Filter) Len() int {
	return len(f.coeffs)
}

// Order returns the filter order (len(coeffs) - 1).
func (f *Filter) Order() int {
	return len(f.coeffs) - 1
}

// Coefficients returns a copy of the filter coefficients.
func (f *Filter) Coefficients() []float64 {
	c := make([]float64, len(f.coeffs))
	copy(c, f.coeffs)
	return c
}

// Response computes the complex frequency response H(e^{-jw}) at the given
// frequency (Hz) and sample rate (Hz).
func (f *Filter) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	var h complex128
	for k, c := range f.coeffs {
		h += complex(c, 0) * cmplx.Exp(complex(0, -w*float64(k)))
	}
	return h
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
func (f *Filter) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return core.LinearToDB(cmplx.Abs(f.Response(freqHz, sampleRate)))
}

package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/dsp/window"
)

var (
	// ErrInvalidCutoff is returned for a cutoff outside (0, 0.5).
	ErrInvalidCutoff = errors.New("fir: cutoff must be in (0, 0.5)")
	// ErrInvalidLength is returned for a kernel length < 1.
	ErrInvalidLength = errors.New("fir: kernel length must be >= 1")
	// ErrZeroSum is returned when a kernel cannot be normalised.
	ErrZeroSum = errors.New("fir: kernel coefficients sum to zero")
)

// LowPassSinc designs a sinc low-pass kernel, Blackman-windowed when
// windowed is set. See LowPassSincWindow.
func LowPassSinc(fc float64, length int, windowed bool) ([]float64, error) {
	w := window.TypeRectangular
	if windowed {
		w = window.TypeBlackman
	}
	return LowPassSincWindow(fc, length, w)
}

// LowPassSincWindow designs a windowed-sinc low-pass kernel.
//
// fc is the cutoff as a fraction of the sample rate. An even length is
// rounded up so the kernel has a centre tap. Tap centre±i is
// sin(2π·fc·i)/(i·π); the centre tap holds the limit 2·fc. The symmetric
// window w peaks on the centre tap, so the kernel stays linear-phase. The
// result is normalised to unity DC gain.
func LowPassSincWindow(fc float64, length int, w window.Type) ([]float64, error) {
	if !(fc > 0 && fc < 0.5) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCutoff, fc)
	}
	if length < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if length%2 == 0 {
		length++
	}

	kernel := make([]float64, length)
	half := length / 2
	kernel[half] = 2 * fc
	for i := 1; i <= half; i++ {
		v := math.Sin(2*math.Pi*fc*float64(i)) / (float64(i) * math.Pi)
		kernel[half+i] = v
		kernel[half-i] = v
	}

	window.Apply(w, kernel)

	if err := Normalize(kernel); err != nil {
		return nil, err
	}
	return kernel, nil
}

// LowPassSincHz is LowPassSincWindow with the cutoff given in Hz.
func LowPassSincHz(cutoffHz float64, length int, sampleRate float64, w window.Type) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("fir: sample rate must be > 0: %v", sampleRate)
	}
	return LowPassSincWindow(cutoffHz/sampleRate, length, w)
}

// Normalize scales kernel in place so its coefficients sum to 1.
func Normalize(kernel []float64) error {
	sum := 0.0
	for _, c := range kernel {
		sum += c
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return ErrZeroSum
	}
	vecmath.ScaleBlock(kernel, kernel, 1/sum)
	return nil
}

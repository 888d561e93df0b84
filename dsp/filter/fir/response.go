package fir

import (
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// MagnitudeResponse returns |H(k)| for the non-negative frequency bins
// [0..fftSize/2] of the zero-padded kernel. fftSize must be at least the
// kernel length; bin k corresponds to k/fftSize of the sample rate.
func MagnitudeResponse(kernel []float64, fftSize int) ([]float64, error) {
	if len(kernel) == 0 {
		return nil, ErrInvalidLength
	}
	if fftSize < len(kernel) {
		return nil, fmt.Errorf("fir: fft size %d shorter than kernel %d", fftSize, len(kernel))
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("fir: fft plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, c := range kernel {
		in[i] = complex(c, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("fir: fft: %w", err)
	}

	mag := make([]float64, fftSize/2+1)
	for k := range mag {
		mag[k] = cmplx.Abs(out[k])
	}
	return mag, nil
}

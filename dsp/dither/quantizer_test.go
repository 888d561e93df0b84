package dither

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestQuantizeWithoutDither(t *testing.T) {
	t.Parallel()

	q, err := NewQuantizer(WithNoise(NoiseNone))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{0.5, 16384},
		{-0.5, -16384},
		{2, 32767},
		{-2, -32768},
	}

	for _, tt := range tests {
		if got := q.Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}

	lo, hi := q.Range()
	if lo != -32768 || hi != 32767 {
		t.Errorf("Range() = (%d, %d)", lo, hi)
	}
}

func TestQuantizeBitDepth(t *testing.T) {
	t.Parallel()

	q, err := NewQuantizer(WithBitDepth(8), WithNoise(NoiseNone))
	if err != nil {
		t.Fatal(err)
	}

	dst := make([]int, 3)
	q.QuantizeBlock(dst, []float64{1, -1, 0})
	if dst[0] != 127 || dst[1] != -127 || dst[2] != 0 {
		t.Fatalf("8-bit block = %v", dst)
	}
}

func TestTriangularDitherIsUnbiased(t *testing.T) {
	t.Parallel()

	q, err := NewQuantizer(WithNoise(NoiseTriangular), WithRNG(newTestRNG()))
	if err != nil {
		t.Fatal(err)
	}

	// A quarter of one LSB is lost by plain rounding but survives on
	// average with TPDF dither.
	const n = 20000
	in := 0.25 / 32767
	sum := 0
	for range n {
		v := q.Quantize(in)
		if v < -2 || v > 2 {
			t.Fatalf("dither too large: %d", v)
		}
		sum += v
	}

	mean := float64(sum) / n
	if mean < 0.2 || mean > 0.3 {
		t.Fatalf("mean = %v, want about 0.25", mean)
	}
}

func TestErrorFeedbackPreservesMean(t *testing.T) {
	t.Parallel()

	q, err := NewQuantizer(WithNoise(NoiseNone), WithShaping(EFB))
	if err != nil {
		t.Fatal(err)
	}

	const n = 1000
	in := 0.3 / 32767
	sum := 0
	for range n {
		sum += q.Quantize(in)
	}

	mean := float64(sum) / n
	if mean < 0.29 || mean > 0.31 {
		t.Fatalf("mean = %v, want about 0.3", mean)
	}

	q.Reset()
	if got := q.Quantize(0); got != 0 {
		t.Errorf("Quantize(0) after Reset = %d", got)
	}
}

func TestNewQuantizerErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewQuantizer(WithBitDepth(1)); !errors.Is(err, ErrInvalidBitDepth) {
		t.Errorf("bit depth 1: err = %v", err)
	}
	if _, err := NewQuantizer(WithNoise(Noise(9))); !errors.Is(err, ErrInvalidNoise) {
		t.Errorf("noise 9: err = %v", err)
	}
}

func TestParseNoise(t *testing.T) {
	t.Parallel()

	for _, n := range []Noise{NoiseNone, NoiseRectangular, NoiseTriangular} {
		got, err := ParseNoise(n.String())
		if err != nil || got != n {
			t.Errorf("ParseNoise(%q) = %v, %v", n.String(), got, err)
		}
	}

	if _, err := ParseNoise("pink"); !errors.Is(err, ErrInvalidNoise) {
		t.Errorf("ParseNoise(pink) err = %v", err)
	}
}

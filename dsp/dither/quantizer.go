package dither

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Noise selects the probability distribution of the dither signal.
type Noise int

const (
	// NoiseNone rounds without dither.
	NoiseNone Noise = iota
	// NoiseRectangular adds uniform noise of ±½ LSB.
	NoiseRectangular
	// NoiseTriangular adds triangular (TPDF) noise of ±1 LSB.
	NoiseTriangular
)

var noiseNames = [...]string{"none", "rectangular", "triangular"}

func (n Noise) String() string {
	if n >= 0 && int(n) < len(noiseNames) {
		return noiseNames[n]
	}
	return fmt.Sprintf("Noise(%d)", int(n))
}

// ParseNoise returns the noise type with the given name.
func ParseNoise(s string) (Noise, error) {
	for i, name := range noiseNames {
		if name == s {
			return Noise(i), nil
		}
	}
	return NoiseNone, fmt.Errorf("%w: %q", ErrInvalidNoise, s)
}

var (
	// ErrInvalidBitDepth is returned for bit depths outside [2, 32].
	ErrInvalidBitDepth = errors.New("dither: bit depth must be in [2, 32]")
	// ErrInvalidNoise is returned for an unknown noise type.
	ErrInvalidNoise = errors.New("dither: unknown noise type")
)

// EFB is first-order error feedback: the previous quantisation error is
// subtracted from the next sample, pushing noise towards Nyquist.
var EFB = []float64{1}

type config struct {
	bitDepth int
	noise    Noise
	shaping  []float64
	rng      *rand.Rand
}

// Option configures a Quantizer.
type Option func(*config) error

// WithBitDepth sets the target word length (default 16).
func WithBitDepth(bits int) Option {
	return func(cfg *config) error {
		if bits < 2 || bits > 32 {
			return fmt.Errorf("%w: %d", ErrInvalidBitDepth, bits)
		}
		cfg.bitDepth = bits
		return nil
	}
}

// WithNoise sets the dither distribution (default NoiseTriangular).
func WithNoise(n Noise) Option {
	return func(cfg *config) error {
		if n < 0 || int(n) >= len(noiseNames) {
			return fmt.Errorf("%w: %d", ErrInvalidNoise, int(n))
		}
		cfg.noise = n
		return nil
	}
}

// WithShaping sets the error-feedback coefficients; nil disables shaping.
func WithShaping(coeffs []float64) Option {
	return func(cfg *config) error {
		for i, c := range coeffs {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("dither: shaping coefficient %d not finite: %v", i, c)
			}
		}
		cfg.shaping = append([]float64(nil), coeffs...)
		return nil
	}
}

// WithRNG sets the random source, for reproducible output.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		cfg.rng = rng
		return nil
	}
}

// Quantizer maps samples in [-1, 1] to signed integers of a fixed word
// length. It is not safe for concurrent use.
type Quantizer struct {
	noise   Noise
	rng     *rand.Rand
	scale   float64
	lo, hi  int
	shaping []float64
	errs    []float64
	pos     int
}

// NewQuantizer returns a 16-bit TPDF quantizer without noise shaping unless
// options say otherwise.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := config{bitDepth: 16, noise: NoiseTriangular}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	full := math.Exp2(float64(cfg.bitDepth - 1))
	q := &Quantizer{
		noise:   cfg.noise,
		rng:     cfg.rng,
		scale:   full - 1,
		lo:      -int(full),
		hi:      int(full) - 1,
		shaping: cfg.shaping,
		errs:    make([]float64, len(cfg.shaping)),
	}

	return q, nil
}

// Range returns the smallest and largest output value.
func (q *Quantizer) Range() (lo, hi int) { return q.lo, q.hi }

// Quantize converts one sample. Out-of-range input is clipped.
func (q *Quantizer) Quantize(x float64) int {
	scaled := x * q.scale

	for i, c := range q.shaping {
		scaled -= c * q.errs[(q.pos+len(q.errs)-1-i)%len(q.errs)]
	}

	v := int(math.Round(scaled + q.dither()))
	v = max(q.lo, min(q.hi, v))

	if len(q.errs) > 0 {
		q.errs[q.pos] = float64(v) - scaled
		q.pos = (q.pos + 1) % len(q.errs)
	}

	return v
}

// QuantizeBlock converts src into dst, which must be at least as long.
func (q *Quantizer) QuantizeBlock(dst []int, src []float64) {
	for i, x := range src {
		dst[i] = q.Quantize(x)
	}
}

// Reset clears the noise-shaping history.
func (q *Quantizer) Reset() {
	clear(q.errs)
	q.pos = 0
}

func (q *Quantizer) dither() float64 {
	switch q.noise {
	case NoiseRectangular:
		return q.rng.Float64() - 0.5
	case NoiseTriangular:
		return q.rng.Float64() - q.rng.Float64()
	default:
		return 0
	}
}

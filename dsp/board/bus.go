package board

import "fmt"

// Bus classifies where a module's outputs go.
type Bus int

const (
	// BusNone routes outputs through connections.
	BusNone Bus = iota
	// BusLeft adds outputs to the left channel.
	BusLeft
	// BusRight adds outputs to the right channel.
	BusRight
	// BusGain multiplies both channels.
	BusGain
	// BusPitch multiplies the broadcast frequency.
	BusPitch
	// BusGlide divides the voice's portamento step.
	BusGlide
)

var busNames = [...]string{"none", "left", "right", "gain", "pitch", "glide"}

func (b Bus) String() string {
	if b >= 0 && int(b) < len(busNames) {
		return busNames[b]
	}
	return fmt.Sprintf("Bus(%d)", int(b))
}

// ParseBus returns the bus with the given name. The empty string is BusNone.
func ParseBus(s string) (Bus, error) {
	if s == "" {
		return BusNone, nil
	}
	for i, n := range busNames {
		if n == s {
			return Bus(i), nil
		}
	}
	return BusNone, fmt.Errorf("board: unknown bus %q", s)
}

// Additive reports whether values on b are summed rather than multiplied.
func (b Bus) Additive() bool {
	return b == BusLeft || b == BusRight
}

// Mix accumulates bus contributions during one pass.
type Mix struct {
	Left, Right float64
	Gain        float64
	Pitch       float64
	Glide       float64
}

// NewMix returns the accumulator state at the start of a sample.
func NewMix() Mix {
	return Mix{Left: 1, Right: 1, Gain: 1, Pitch: 1, Glide: 1}
}

// Combine folds v into the accumulator of bus.
func (m Mix) Combine(bus Bus, v float64) Mix {
	switch bus {
	case BusLeft:
		m.Left += v
	case BusRight:
		m.Right += v
	case BusGain:
		m.Gain *= v
	case BusPitch:
		m.Pitch *= v
	case BusGlide:
		m.Glide *= v
	}
	return m
}

// Stereo returns the channel pair after applying the gain accumulator.
func (m Mix) Stereo() (left, right float64) {
	return m.Left * m.Gain, m.Right * m.Gain
}

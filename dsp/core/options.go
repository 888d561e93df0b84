package core

// Config holds the settings a synthesis board and its voice share.
type Config struct {
	// SampleRate is the output sample rate in Hz.
	SampleRate float64
	// PitchWheelRange is the pitch-wheel bend range in semitones.
	PitchWheelRange float64
	// GlideTime is the portamento duration in milliseconds.
	GlideTime float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the settings used when no option overrides them.
func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		PitchWheelRange: 2,
		GlideTime:       0,
	}
}

// WithSampleRate sets the output sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithPitchWheelRange sets the bend range of the pitch wheel in semitones.
func WithPitchWheelRange(semitones float64) Option {
	return func(cfg *Config) {
		if semitones >= 0 {
			cfg.PitchWheelRange = semitones
		}
	}
}

// WithGlideTime sets the portamento duration in milliseconds.
func WithGlideTime(ms float64) Option {
	return func(cfg *Config) {
		if ms >= 0 {
			cfg.GlideTime = ms
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// MillisToSamples converts a duration in milliseconds to a sample count.
func (c Config) MillisToSamples(ms float64) float64 {
	return ms * c.SampleRate / 1000
}

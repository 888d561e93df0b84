package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func ExampleApplyOptions() {
	cfg := core.ApplyOptions(
		core.WithSampleRate(48000),
		core.WithGlideTime(50),
	)

	fmt.Printf("sampleRate=%.0f glide=%.0fms (%.0f samples)\n",
		cfg.SampleRate, cfg.GlideTime, cfg.MillisToSamples(cfg.GlideTime))

	// Output:
	// sampleRate=48000 glide=50ms (2400 samples)
}

func ExampleNoteFrequency() {
	fmt.Printf("%.2f %.2f\n", core.NoteFrequency(69), core.NoteFrequency(72))

	// Output:
	// 440.00 523.25
}

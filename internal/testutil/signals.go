package testutil

import "math"

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Left and Right split an interleaved stereo buffer into its channels.
func Left(interleaved []float64) []float64 {
	return channel(interleaved, 0)
}

// Right returns the odd-indexed samples of an interleaved stereo buffer.
func Right(interleaved []float64) []float64 {
	return channel(interleaved, 1)
}

func channel(interleaved []float64, ch int) []float64 {
	out := make([]float64, 0, len(interleaved)/2)
	for i := ch; i < len(interleaved); i += 2 {
		out = append(out, interleaved[i])
	}
	return out
}

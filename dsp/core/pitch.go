package core

// Equal-temperament reference: MIDI note 69 is A4.
const (
	ReferenceNote      = 69
	ReferenceFrequency = 440.0
)

// SemitoneRatio returns the frequency multiplier for an offset in
// half-tones, 2^(semitones/12).
func SemitoneRatio(semitones float64) float64 {
	return exp2(semitones / 12)
}

// NoteFrequency returns the equal-temperament frequency of a MIDI note.
func NoteFrequency(note int) float64 {
	return ReferenceFrequency * SemitoneRatio(float64(note-ReferenceNote))
}

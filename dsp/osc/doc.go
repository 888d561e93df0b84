// Package osc provides the periodic waveform generators driven by the
// board's oscillator modules.
//
// A [Waveform] owns its phase. Generators are never shared between voices:
// [Waveform.Clone] returns an independent copy that continues from the same
// phase, and [New] builds a fresh generator from its name.
package osc

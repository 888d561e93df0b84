// Package board implements a sample-accurate modular synthesis board: a
// directed acyclic graph of modules evaluated once per output sample.
//
// A [Graph] is an immutable template. [NewGraph] validates every
// [Connection] (module and slot indices, one connection per slot, no
// wiring out of bus-tagged modules, no cycles) and sorts the modules so
// that every module is evaluated after all modules feeding it.
//
// A [Board] is one playable instance of a graph. It clones every template
// module, so boards never share oscillator phase, filter history or
// envelope state. [Board.Next] runs one pass over the sorted modules,
// routes each output either into a downstream input slot or into one of
// the global buses, and returns the stereo sample
//
//	(Left·Gain, Right·Gain)
//
// Left and Right are additive with a baseline of 1; Gain, Pitch and Glide
// are multiplicative with a baseline of 1. Envelopes therefore emit a gain
// offset in [-1, 0] that is summed onto the Left/Right baseline, while
// oscillators usually feed the Gain bus.
//
// The per-sample path does not allocate. Structural problems are reported
// by [NewGraph], [ParsePatch] and the module constructors, never while
// streaming; a failure during streaming is passed to the diagnostic sink
// and that sample becomes silence.
package board

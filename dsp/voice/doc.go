// Package voice drives a synthesis board as a monophonic instrument.
//
// [Mono] keeps a note stack with last-note priority and glides the board's
// base frequency between pitches. [Output] feeds a render callback from the
// current voice and lets another goroutine replace that voice without
// locking the steady-state render path.
package voice

// Package fir provides a direct-form FIR filter runtime and a windowed-sinc
// low-pass kernel designer.
//
// A [Filter] applies a set of pre-computed coefficients to an input stream
// using a circular-buffer history. Kernels are designed once with
// [LowPassSinc] and never adapted at runtime; [MagnitudeResponse] inspects
// a kernel through an FFT.
package fir

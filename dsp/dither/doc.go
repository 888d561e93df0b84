// Package dither converts rendered float samples to fixed-point integers
// with optional dither noise and error-feedback noise shaping.
package dither

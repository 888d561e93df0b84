// Package window generates cosine-sum window functions used to shape
// FIR filter kernels.
package window

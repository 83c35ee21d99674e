// SPDX-License-Identifier: EPL-2.0

// Package compress implements the size-driven compression controller.
//
// A Controller decodes an input once and renders it through the Standard
// and Extreme attempts, encoding each as 8-bit mono WAV and returning the
// first whose size is at most the ceiling. When both are too large the
// Extreme signal is either trimmed to the first 55 minutes (long inputs) or
// decimated by two, and that result is returned regardless of size.
//
// Progress moves through 10, 30, 60, 80 and ends with a single 100.
//
//	out, err := compress.New().Compress(in, compress.WorkingCeiling, func(p float64) {
//	    fmt.Printf("\r%3.0f%%", p)
//	})
package compress

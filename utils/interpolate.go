// SPDX-License-Identifier: EPL-2.0

// Package utils holds the scalar helpers shared by the audio pipeline:
// interpolation and PCM sample quantization.
package utils

// CubicInterpolate evaluates the Catmull-Rom spline through y0..y3 at x,
// where x in [0, 1] is the fractional position between y1 and y2.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := -0.5*y0 + 0.5*y2

	return ((a*x+b)*x+c)*x + y1
}

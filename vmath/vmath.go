// Package vmath provides float64 2D geometry for artwork-space calculations:
// vectors, axis-aligned ellipses and affine coordinate transforms.
//
// All angles are radians, measured with math.Atan2 convention
// (0 along +X, positive toward +Y). Artwork space is y-down like SVG.
package vmath

import "math"

// Epsilon is the default tolerance for float comparisons in artwork units
const Epsilon = 1e-9

// singularDet is the determinant magnitude below which a transform is treated as non-invertible
const singularDet = 1e-12

// Clamp restricts v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearlyEqual reports whether a and b differ by at most eps
func NearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Lerp interpolates between a and b, t=0 → a, t=1 → b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// finite reports whether f is neither NaN nor ±Inf
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

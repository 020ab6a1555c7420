package vmath

import "math"

// Ellipse utilities for axis-aligned ellipses given by center and semi-axes

// DegenerateDenominator is the polar-radius denominator below which
// EllipseRadiusAt falls back to the smaller semi-axis
const DegenerateDenominator = 0.001

// EllipseRadiusAt returns the center-to-boundary distance along angle
// Polar form: r(θ) = (rx·ry) / sqrt(rx²·sin²θ + ry²·cos²θ)
// A near-zero denominator (both axes ~0) returns min(rx, ry)
func EllipseRadiusAt(rx, ry, angle float64) float64 {
	sin, cos := math.Sincos(angle)
	den := math.Sqrt(rx*rx*sin*sin + ry*ry*cos*cos)
	if den <= DegenerateDenominator {
		return math.Min(rx, ry)
	}
	return (rx * ry) / den
}

// EllipseDistSq returns the normalized squared distance dx²/rx² + dy²/ry²
// Result <= 1 means (dx, dy) is inside or on the boundary
// A zero radius collapses that axis: only dx == 0 (resp. dy == 0) is inside
func EllipseDistSq(dx, dy, rx, ry float64) float64 {
	var nx, ny float64
	switch {
	case rx > 0:
		nx = dx * dx / (rx * rx)
	case dx != 0:
		return math.Inf(1)
	}
	switch {
	case ry > 0:
		ny = dy * dy / (ry * ry)
	case dy != 0:
		return math.Inf(1)
	}
	return nx + ny
}

// EllipseContains returns true if (dx, dy) relative to center is inside or on the boundary
func EllipseContains(dx, dy, rx, ry float64) bool {
	return EllipseDistSq(dx, dy, rx, ry) <= 1
}

// EllipsePoint returns the boundary point at parametric angle t
func EllipsePoint(center Vec2, rx, ry, t float64) Vec2 {
	sin, cos := math.Sincos(t)
	return Vec2{X: center.X + rx*cos, Y: center.Y + ry*sin}
}

package vmath

import "math"

// Vec2 is a point or displacement in 2D
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromPolar returns the vector of length r at angle
func FromPolar(angle, r float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: cos * r, Y: sin * r}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Neg() Vec2       { return Vec2{X: -v.X, Y: -v.Y} }

// Scale multiplies both components by f
func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// Len returns the Euclidean length
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LenSq returns the squared length without sqrt
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Angle returns atan2(y, x); the zero vector yields 0
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Dot returns the dot product
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Lerp interpolates toward o by t
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(v.X, o.X, t), Y: Lerp(v.Y, o.Y, t)}
}

// NearlyEqual compares component-wise within eps
func (v Vec2) NearlyEqual(o Vec2, eps float64) bool {
	return NearlyEqual(v.X, o.X, eps) && NearlyEqual(v.Y, o.Y, eps)
}

// IsFinite reports whether both components are finite
func (v Vec2) IsFinite() bool {
	return finite(v.X) && finite(v.Y)
}

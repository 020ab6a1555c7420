package vmath

import "math"

// Affine is a 2D affine transform in SVG matrix order (a b c d e f)
//
//	| A C E |
//	| B D F |
//	| 0 0 1 |
//
// Apply maps (x, y) to (A·x + C·y + E, B·x + D·y + F)
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the no-op transform
var Identity = Affine{A: 1, D: 1}

// Translate returns a pure translation
func Translate(tx, ty float64) Affine {
	return Affine{A: 1, D: 1, E: tx, F: ty}
}

// ScaleXY returns a pure axis scale about the origin
func ScaleXY(sx, sy float64) Affine {
	return Affine{A: sx, D: sy}
}

// Apply transforms point p
func (m Affine) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyVector transforms displacement v (translation ignored)
func (m Affine) ApplyVector(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.C*v.Y,
		Y: m.B*v.X + m.D*v.Y,
	}
}

// Mul returns m·n: the transform applying n first, then m
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Det returns the determinant of the linear part
func (m Affine) Det() float64 {
	return m.A*m.D - m.B*m.C
}

// Invertible reports whether the transform has a usable inverse
func (m Affine) Invertible() bool {
	det := m.Det()
	return finite(det) && math.Abs(det) > singularDet &&
		finite(m.E) && finite(m.F)
}

// Inverse returns the inverse transform
// ok is false for singular or non-finite matrices; the returned value is then Identity
func (m Affine) Inverse() (Affine, bool) {
	if !m.Invertible() {
		return Identity, false
	}
	det := m.Det()
	return Affine{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}, true
}

// AxisAligned reports whether the transform has no rotation or skew
func (m Affine) AxisAligned() bool {
	return m.B == 0 && m.C == 0
}

// NearlyEqual compares all six coefficients within eps
func (m Affine) NearlyEqual(n Affine, eps float64) bool {
	return NearlyEqual(m.A, n.A, eps) && NearlyEqual(m.B, n.B, eps) &&
		NearlyEqual(m.C, n.C, eps) && NearlyEqual(m.D, n.D, eps) &&
		NearlyEqual(m.E, n.E, eps) && NearlyEqual(m.F, n.F, eps)
}

package gaze

import (
	"math"

	"github.com/lixenwraith/robotrak/vmath"
)

// Solution holds every intermediate of one offset computation
type Solution struct {
	Local       vmath.Vec2 // pointer in artwork-local space
	Delta       vmath.Vec2 // Local - socket center
	Angle       float64
	Distance    float64
	MaxDistance float64 // travel-ellipse radius at Angle
	Limited     float64 // min(Distance, MaxDistance)
	Saturated   bool    // pupil pinned to the travel boundary
	Offset      vmath.Vec2
}

// Solve computes the pupil offset for a pointer already in local space
//
// The pupil center is placed along the pointer direction at
// min(distance, travel radius) from the socket center, then expressed
// relative to the pupil's rest position since rendering applies the
// offset on top of it.
func Solve(local vmath.Vec2, eye Eye) Solution {
	d := local.Sub(eye.Socket.Center)
	distance := d.Len()
	angle := math.Atan2(d.Y, d.X)

	maxX, maxY := eye.Travel()
	maxDistance := vmath.EllipseRadiusAt(maxX, maxY, angle)

	limited := math.Min(distance, maxDistance)
	final := vmath.FromPolar(angle, limited)

	return Solution{
		Local:       local,
		Delta:       d,
		Angle:       angle,
		Distance:    distance,
		MaxDistance: maxDistance,
		Limited:     limited,
		Saturated:   distance >= maxDistance,
		Offset:      final.Sub(eye.RestOffset()),
	}
}

// ComputeOffset maps a screen-space pointer through the inverse of the
// surface's local→screen transform and solves for the pupil offset.
// ok is false when ctm is not invertible; callers keep their previous offset.
func ComputeOffset(pointer vmath.Vec2, ctm vmath.Affine, eye Eye) (vmath.Vec2, bool) {
	inv, ok := ctm.Inverse()
	if !ok {
		return vmath.Vec2{}, false
	}
	return Solve(inv.Apply(pointer), eye).Offset, true
}

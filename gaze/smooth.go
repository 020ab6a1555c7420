package gaze

import (
	"math"
	"time"

	"github.com/lixenwraith/robotrak/vmath"
)

// Smoother eases a displayed offset toward the tracker's latest target
// It sits on top of the tracker and never feeds back into it. Every eased
// value is a convex combination of contained offsets, so it stays inside
// the travel ellipse as well.
type Smoother struct {
	rate float64 // 1/s, 0 = pass-through
	cur  vmath.Vec2
	has  bool
}

// NewSmoother creates a smoother; rate <= 0 disables easing
func NewSmoother(rate float64) *Smoother {
	return &Smoother{rate: rate}
}

// Step advances by dt toward target and returns the displayed value
func (s *Smoother) Step(target vmath.Vec2, dt time.Duration) vmath.Vec2 {
	if s.rate <= 0 || !s.has {
		s.cur = target
		s.has = true
		return target
	}
	if dt <= 0 {
		return s.cur
	}
	k := 1 - math.Exp(-s.rate*dt.Seconds())
	s.cur = s.cur.Lerp(target, k)
	return s.cur
}

// Current returns the last displayed value
func (s *Smoother) Current() vmath.Vec2 {
	return s.cur
}

// Reset forgets the displayed value; the next Step snaps to its target
func (s *Smoother) Reset() {
	s.cur = vmath.Vec2{}
	s.has = false
}

// FaceSmoother eases both eyes with the same rate
type FaceSmoother struct {
	left, right *Smoother
}

// NewFaceSmoother creates a smoother pair
func NewFaceSmoother(rate float64) *FaceSmoother {
	return &FaceSmoother{left: NewSmoother(rate), right: NewSmoother(rate)}
}

// Step eases both offsets; saturation flags and validity pass through unchanged
func (fs *FaceSmoother) Step(target FaceOffsets, dt time.Duration) FaceOffsets {
	if !target.Valid {
		return target
	}
	out := target
	out.Left = fs.left.Step(target.Left, dt)
	out.Right = fs.right.Step(target.Right, dt)
	return out
}

// Reset forgets both positions; the next Step snaps
func (fs *FaceSmoother) Reset() {
	fs.left.Reset()
	fs.right.Reset()
}

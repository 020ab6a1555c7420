package gaze

import "github.com/lixenwraith/robotrak/vmath"

// Surface supplies the current local→screen transform of the artwork
// ok=false means the surface cannot be measured yet (not laid out, zero size)
type Surface interface {
	ScreenCTM() (vmath.Affine, bool)
}

// SurfaceFunc adapts a function to Surface
type SurfaceFunc func() (vmath.Affine, bool)

// ScreenCTM implements Surface
func (f SurfaceFunc) ScreenCTM() (vmath.Affine, bool) {
	return f()
}

// Tracker owns the live offset of one eye
// Each update recomputes from scratch; no history is kept
type Tracker struct {
	eye    Eye
	offset vmath.Vec2
	has    bool
	last   Solution
}

// NewTracker creates a tracker with no offset yet
// eye is copied; the geometry cannot change afterwards
func NewTracker(eye Eye) *Tracker {
	return &Tracker{eye: eye}
}

// Eye returns the tracker's static geometry
func (t *Tracker) Eye() Eye {
	return t.eye
}

// Update recomputes the offset for a screen-space pointer
// The surface transform is read fresh on each call. When it is unavailable
// or non-invertible the update is skipped and the previous offset (zero if
// none) is returned with updated=false.
func (t *Tracker) Update(pointer vmath.Vec2, surface Surface) (offset vmath.Vec2, updated bool) {
	if surface == nil {
		return t.offset, false
	}
	ctm, ok := surface.ScreenCTM()
	if !ok {
		return t.offset, false
	}
	inv, ok := ctm.Inverse()
	if !ok {
		return t.offset, false
	}
	return t.UpdateLocal(inv.Apply(pointer)), true
}

// UpdateLocal recomputes the offset for a pointer already in artwork space
func (t *Tracker) UpdateLocal(local vmath.Vec2) vmath.Vec2 {
	sol := Solve(local, t.eye)
	t.offset = sol.Offset
	t.has = true
	t.last = sol
	return sol.Offset
}

// Offset returns the current offset and whether one has been computed
func (t *Tracker) Offset() (vmath.Vec2, bool) {
	return t.offset, t.has
}

// Last returns the most recent successful solution
func (t *Tracker) Last() Solution {
	return t.last
}

// PupilCenter returns the rendered pupil center in artwork space
func (t *Tracker) PupilCenter() vmath.Vec2 {
	return t.eye.PupilCenter(t.offset)
}

// Reset drops the current offset; the pupil returns to its rest position
func (t *Tracker) Reset() {
	t.offset = vmath.Vec2{}
	t.has = false
	t.last = Solution{}
}

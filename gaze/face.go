package gaze

import (
	"github.com/lixenwraith/robotrak/pointer"
	"github.com/lixenwraith/robotrak/vmath"
)

// FaceOffsets is one frame of output for both eyes
type FaceOffsets struct {
	Left, Right    vmath.Vec2
	LeftSaturated  bool
	RightSaturated bool
	Valid          bool // at least one successful update happened
}

// Face drives the left and right trackers from a single pointer
type Face struct {
	left  *Tracker
	right *Tracker
}

// NewFace creates a face from two eye geometries
func NewFace(left, right Eye) *Face {
	return &Face{
		left:  NewTracker(left),
		right: NewTracker(right),
	}
}

// DefaultFace returns a face with the mascot's eyes
func DefaultFace() *Face {
	return NewFace(DefaultLeft(), DefaultRight())
}

func (f *Face) Left() *Tracker  { return f.left }
func (f *Face) Right() *Tracker { return f.right }

// Track updates both eyes for one pointer position
func (f *Face) Track(p vmath.Vec2, surface Surface) FaceOffsets {
	f.left.Update(p, surface)
	f.right.Update(p, surface)
	return f.Offsets()
}

// TrackLocal updates both eyes for a pointer already in artwork space
func (f *Face) TrackLocal(local vmath.Vec2) FaceOffsets {
	f.left.UpdateLocal(local)
	f.right.UpdateLocal(local)
	return f.Offsets()
}

// Offsets returns the current pair without recomputing
func (f *Face) Offsets() FaceOffsets {
	l, lok := f.left.Offset()
	r, rok := f.right.Offset()
	return FaceOffsets{
		Left:           l,
		Right:          r,
		LeftSaturated:  lok && f.left.Last().Saturated,
		RightSaturated: rok && f.right.Last().Saturated,
		Valid:          lok || rok,
	}
}

// Reset returns both pupils to rest
func (f *Face) Reset() {
	f.left.Reset()
	f.right.Reset()
}

// Bind subscribes the face to a global pointer stream
// Every event recomputes both eyes against the surface and hands the result
// to apply. The caller owns the returned subscription and must Close it when
// the face goes away; events after Close have no effect. A nil face binds
// nothing and gets an inactive subscription.
func (f *Face) Bind(hub *pointer.Hub, surface Surface, apply func(FaceOffsets)) *pointer.Subscription {
	if f == nil {
		return hub.Subscribe(nil)
	}
	return hub.Subscribe(func(ev pointer.Event) {
		if surface == nil {
			return
		}
		out := f.Track(ev.Pos, surface)
		if apply != nil {
			apply(out)
		}
	})
}

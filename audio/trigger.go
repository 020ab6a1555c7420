package audio

import "github.com/lixenwraith/robotrak/gaze"

// SaturationTrigger fires when either eye reaches its travel limit
// An eye pinned at the edge fires once; it must come back inside to re-arm
type SaturationTrigger struct {
	left, right bool
}

// Observe reports whether o saturates an eye that was not saturated before
// Frames without a valid offset leave the state untouched
func (t *SaturationTrigger) Observe(o gaze.FaceOffsets) bool {
	if !o.Valid {
		return false
	}
	fired := (o.LeftSaturated && !t.left) || (o.RightSaturated && !t.right)
	t.left, t.right = o.LeftSaturated, o.RightSaturated
	return fired
}

// Reset re-arms both eyes
func (t *SaturationTrigger) Reset() {
	t.left, t.right = false, false
}

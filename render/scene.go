package render

import (
	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/gaze"
	"github.com/lixenwraith/robotrak/vmath"
)

// Scene is the artwork plus the current pupil offsets
type Scene struct {
	Art     *artwork.Artwork
	Offsets gaze.FaceOffsets
}

// NewScene creates a scene with pupils at rest
func NewScene(art *artwork.Artwork) *Scene {
	return &Scene{Art: art}
}

// Offset returns the applied offset of eye i (0 left, 1 right)
func (s *Scene) Offset(i int) vmath.Vec2 {
	if !s.Offsets.Valid {
		return vmath.Vec2{}
	}
	if i == 0 {
		return s.Offsets.Left
	}
	return s.Offsets.Right
}

// Sample returns the color at a view-box point
// Draw order: background, shapes by layer, sclera, then the pupil group
// (pupil and glints) translated by the eye offset and clipped to the socket
func (s *Scene) Sample(p vmath.Vec2) artwork.Color {
	colors := s.Art.Colors()
	c := colors.Background

	for _, sh := range s.Art.Shapes {
		if inside(p, sh.Ellipse(), vmath.Vec2{}) {
			c = sh.Color().Over(c, sh.Alpha(), sh.Blend)
		}
	}

	for i, eye := range s.Art.Eye {
		if !inside(p, eye.Socket, vmath.Vec2{}) {
			continue
		}
		c = colors.Sclera
		off := s.Offset(i)
		if inside(p, eye.Pupil, off) {
			c = colors.Pupil
		}
		for _, g := range eye.Glints {
			if inside(p, g, off) {
				c = colors.Glint
			}
		}
	}
	return c
}

func inside(p vmath.Vec2, e artwork.Ellipse, off vmath.Vec2) bool {
	d := p.Sub(e.Center().Add(off))
	return vmath.EllipseContains(d.X, d.Y, e.RX, e.RY)
}

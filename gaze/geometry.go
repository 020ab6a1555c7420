// Package gaze maps a pointer position into a pupil offset that keeps the
// pupil inside its elliptical eye socket.
//
// The package is free of any rendering or host dependency: hosts supply
// the pointer position and the surface transform, and apply the returned
// offset to whatever primitive draws the pupil.
package gaze

import "github.com/lixenwraith/robotrak/vmath"

// Socket is the static elliptical boundary of an eye, in artwork-local space
type Socket struct {
	Center           vmath.Vec2
	RadiusX, RadiusY float64
}

// Pupil is the static rest configuration of the movable pupil
// Radii only determine travel room; the pupil is never clamped as a shape
type Pupil struct {
	InitialCenter    vmath.Vec2
	RadiusX, RadiusY float64
}

// Eye pairs a socket with its pupil
type Eye struct {
	Name   string
	Socket Socket
	Pupil  Pupil
}

// Travel returns the travel-ellipse semi-axes: the largest center-to-center
// displacement per axis before the pupil edge crosses the socket edge.
// Negative room (pupil wider than socket) is reported as zero.
func (e Eye) Travel() (maxX, maxY float64) {
	return max(0, e.Socket.RadiusX-e.Pupil.RadiusX), max(0, e.Socket.RadiusY-e.Pupil.RadiusY)
}

// RestOffset is the pupil's rest displacement from the socket center
func (e Eye) RestOffset() vmath.Vec2 {
	return e.Pupil.InitialCenter.Sub(e.Socket.Center)
}

// PupilCenter returns where the pupil center sits once offset is applied
func (e Eye) PupilCenter(offset vmath.Vec2) vmath.Vec2 {
	return e.Pupil.InitialCenter.Add(offset)
}

// Mascot eye geometry, artwork units of the 647.42×450 view box
const (
	mascotEyeY         = 241.09
	mascotSocketRX     = 56.04
	mascotSocketRY     = 62.88
	mascotPupilRX      = 39.45
	mascotPupilRY      = 45.65
	mascotLeftSocketX  = 183.13
	mascotLeftPupilX   = 189.29
	mascotRightSocketX = 372.38
	mascotRightPupilX  = 366.21
)

// DefaultLeft returns the mascot's left eye; the pupil rests slightly inward
func DefaultLeft() Eye {
	return Eye{
		Name: "left",
		Socket: Socket{
			Center:  vmath.V(mascotLeftSocketX, mascotEyeY),
			RadiusX: mascotSocketRX,
			RadiusY: mascotSocketRY,
		},
		Pupil: Pupil{
			InitialCenter: vmath.V(mascotLeftPupilX, mascotEyeY),
			RadiusX:       mascotPupilRX,
			RadiusY:       mascotPupilRY,
		},
	}
}

// DefaultRight returns the mascot's right eye
func DefaultRight() Eye {
	return Eye{
		Name: "right",
		Socket: Socket{
			Center:  vmath.V(mascotRightSocketX, mascotEyeY),
			RadiusX: mascotSocketRX,
			RadiusY: mascotSocketRY,
		},
		Pupil: Pupil{
			InitialCenter: vmath.V(mascotRightPupilX, mascotEyeY),
			RadiusX:       mascotPupilRX,
			RadiusY:       mascotPupilRY,
		},
	}
}

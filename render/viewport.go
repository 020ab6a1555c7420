// Package render draws the mascot scene onto terminal cells, raster images
// and GL triangle meshes. All renderers share one viewport model: the artwork
// view box fitted into a host rectangle with uniform "meet" scaling.
package render

import (
	"math"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/vmath"
)

// Rect is a host-space rectangle
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Empty() bool {
	return !(r.W > 0 && r.H > 0)
}

// Viewport places the view box inside a host rectangle
// PixelAspect is the physical height/width ratio of one host unit; terminal
// cells are about twice as tall as wide. Zero means square units.
type Viewport struct {
	ViewBox     artwork.ViewBox
	Host        Rect
	PixelAspect float64
}

func (v Viewport) aspect() float64 {
	if v.PixelAspect > 0 && !math.IsInf(v.PixelAspect, 0) {
		return v.PixelAspect
	}
	return 1
}

// Scale returns host x-units per view-box unit
func (v Viewport) Scale() float64 {
	if v.Host.Empty() || !(v.ViewBox.Width > 0 && v.ViewBox.Height > 0) {
		return 0
	}
	a := v.aspect()
	return math.Min(v.Host.W/v.ViewBox.Width, v.Host.H*a/v.ViewBox.Height)
}

// ScreenCTM returns the view-box → host transform (xMidYMid meet)
// ok is false when either rectangle is empty
func (v Viewport) ScreenCTM() (vmath.Affine, bool) {
	s := v.Scale()
	if s <= 0 {
		return vmath.Identity, false
	}
	a := v.aspect()
	sy := s / a
	return vmath.Affine{
		A: s,
		D: sy,
		E: v.Host.X + (v.Host.W-v.ViewBox.Width*s)/2,
		F: v.Host.Y + (v.Host.H-v.ViewBox.Height*sy)/2,
	}, true
}

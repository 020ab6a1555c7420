package render

import (
	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/vmath"
)

// HalfBlock is the upper-half block glyph: Fg paints the top half, Bg the bottom
const HalfBlock = '▀'

// CellAspect is the default terminal cell height/width ratio
const CellAspect = 2.0

// Cell is one terminal character cell
type Cell struct {
	Rune   rune
	Fg, Bg artwork.Color
}

// CellCanvas is a grid of cells with two vertical subpixels each
type CellCanvas struct {
	w, h  int
	cells []Cell
}

// NewCellCanvas creates a canvas of w×h cells
func NewCellCanvas(w, h int) *CellCanvas {
	c := &CellCanvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates only when the grid grows
func (c *CellCanvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	c.w, c.h = w, h
	if n := w * h; cap(c.cells) >= n {
		c.cells = c.cells[:n]
	} else {
		c.cells = make([]Cell, n)
	}
}

func (c *CellCanvas) Size() (w, h int) { return c.w, c.h }

// Cell returns the cell at (x, y); out of range yields the zero cell
func (c *CellCanvas) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return Cell{}
	}
	return c.cells[y*c.w+x]
}

// Fill sets every cell to a blank of the given color
func (c *CellCanvas) Fill(bg artwork.Color) {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: ' ', Fg: bg, Bg: bg}
	}
}

// DrawScene samples the scene at each subpixel center
// Cell (0,0) sits at the viewport host origin
// Returns false and leaves a plain background when the viewport is unusable
func (c *CellCanvas) DrawScene(s *Scene, vp Viewport) bool {
	bg := s.Art.Colors().Background
	ctm, ok := vp.ScreenCTM()
	if !ok {
		c.Fill(bg)
		return false
	}
	inv, ok := ctm.Inverse()
	if !ok {
		c.Fill(bg)
		return false
	}

	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			hx := vp.Host.X + float64(x) + 0.5
			hy := vp.Host.Y + float64(y)
			top := s.Sample(inv.Apply(vmath.V(hx, hy+0.25)))
			bot := s.Sample(inv.Apply(vmath.V(hx, hy+0.75)))
			cell := Cell{Rune: HalfBlock, Fg: top, Bg: bot}
			if top == bot {
				cell = Cell{Rune: ' ', Fg: top, Bg: bot}
			}
			c.cells[y*c.w+x] = cell
		}
	}
	return true
}

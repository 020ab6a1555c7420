package render

import (
	"math"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/vmath"
)

// VertexStride is the float count per vertex: x, y, r, g, b, a
const VertexStride = 6

// DefaultSegments is the ellipse tessellation used by GL hosts
const DefaultSegments = 64

// Stencil tells the GL host how a batch interacts with the stencil buffer
type Stencil uint8

const (
	StencilNone  Stencil = iota
	StencilWrite         // clear, then mark covered pixels
	StencilTest          // draw only over marked pixels
)

// Batch is a contiguous run of triangles sharing GL state
type Batch struct {
	First, Count int // in vertices
	Blend        artwork.Blend
	Stencil      Stencil
}

// Mesh is the scene as colored triangles in host coordinates
type Mesh struct {
	Vertices []float32
	Batches  []Batch
}

func (m *Mesh) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Batches = m.Batches[:0]
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// BuildMesh tessellates the scene through the viewport transform
// Multiply shapes are pre-mixed so that dst·color reproduces the blend
func BuildMesh(m *Mesh, s *Scene, vp Viewport, segments int) bool {
	m.Reset()
	ctm, ok := vp.ScreenCTM()
	if !ok {
		return false
	}
	if segments < 8 {
		segments = 8
	}
	colors := s.Art.Colors()

	for _, sh := range s.Art.Shapes {
		r, g, b, a := shapeColor(sh)
		m.ellipse(ctm, sh.Ellipse(), vmath.Vec2{}, segments, r, g, b, a, sh.Blend, StencilNone)
	}

	for i, eye := range s.Art.Eye {
		off := s.Offset(i)
		r, g, b := colors.Sclera.Floats()
		m.ellipse(ctm, eye.Socket, vmath.Vec2{}, segments, r, g, b, 1, artwork.BlendNormal, StencilWrite)

		r, g, b = colors.Pupil.Floats()
		m.ellipse(ctm, eye.Pupil, off, segments, r, g, b, 1, artwork.BlendNormal, StencilTest)

		r, g, b = colors.Glint.Floats()
		for _, glint := range eye.Glints {
			m.ellipse(ctm, glint, off, segments/2, r, g, b, 1, artwork.BlendNormal, StencilTest)
		}
	}
	return true
}

func shapeColor(sh artwork.Shape) (r, g, b, a float32) {
	r, g, b = sh.Color().Floats()
	a = float32(sh.Alpha())
	if sh.Blend == artwork.BlendMultiply {
		// dst·(1-a+a·c) = (1-a)·dst + a·dst·c
		return 1 - a + a*r, 1 - a + a*g, 1 - a + a*b, 1
	}
	return r, g, b, a
}

// ellipse appends a triangle fan as a triangle list
func (m *Mesh) ellipse(ctm vmath.Affine, e artwork.Ellipse, off vmath.Vec2, segments int,
	r, g, b, a float32, blend artwork.Blend, stencil Stencil) {
	first := m.VertexCount()
	center := ctm.Apply(e.Center().Add(off))
	prev := ctm.Apply(vmath.EllipsePoint(e.Center().Add(off), e.RX, e.RY, 0))

	for i := 1; i <= segments; i++ {
		t := 2 * math.Pi * float64(i) / float64(segments)
		next := ctm.Apply(vmath.EllipsePoint(e.Center().Add(off), e.RX, e.RY, t))
		m.Vertices = append(m.Vertices,
			float32(center.X), float32(center.Y), r, g, b, a,
			float32(prev.X), float32(prev.Y), r, g, b, a,
			float32(next.X), float32(next.Y), r, g, b, a,
		)
		prev = next
	}

	count := m.VertexCount() - first
	if n := len(m.Batches); n > 0 {
		last := &m.Batches[n-1]
		if last.Blend == blend && last.Stencil == stencil && stencil != StencilWrite &&
			last.First+last.Count == first {
			last.Count += count
			return
		}
	}
	m.Batches = append(m.Batches, Batch{First: first, Count: count, Blend: blend, Stencil: stencil})
}

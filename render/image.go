package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/vmath"
)

var ErrFormat = errors.New("unsupported image format")

// Format is an output image encoding
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// FormatFromPath picks the encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
}

// Cubic Bézier control distance for a quarter ellipse
const kappa = 0.5522847498307936

// ImageCanvas rasterizes the scene with anti-aliased vector ellipses
type ImageCanvas struct {
	img  *image.RGBA
	z    *vector.Rasterizer
	mask *image.Alpha
	clip *image.Alpha
}

// NewImageCanvas creates a w×h canvas
func NewImageCanvas(w, h int) *ImageCanvas {
	w, h = max(w, 1), max(h, 1)
	r := image.Rect(0, 0, w, h)
	return &ImageCanvas{
		img:  image.NewRGBA(r),
		z:    vector.NewRasterizer(w, h),
		mask: image.NewAlpha(r),
		clip: image.NewAlpha(r),
	}
}

func (c *ImageCanvas) Image() *image.RGBA { return c.img }

// Viewport covers the whole canvas with square pixels
func (c *ImageCanvas) Viewport(vb artwork.ViewBox) Viewport {
	b := c.img.Bounds()
	return Viewport{
		ViewBox:     vb,
		Host:        Rect{W: float64(b.Dx()), H: float64(b.Dy())},
		PixelAspect: 1,
	}
}

// Clear fills the canvas with an opaque color
func (c *ImageCanvas) Clear(col artwork.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col.NRGBA(1)), image.Point{}, draw.Src)
}

// DrawBackdrop scales src over the whole canvas
func (c *ImageCanvas) DrawBackdrop(src image.Image) {
	draw.CatmullRom.Scale(c.img, c.img.Bounds(), src, src.Bounds(), draw.Over, nil)
}

// Render clears to the palette background and draws the scene
func (c *ImageCanvas) Render(s *Scene, vp Viewport) bool {
	c.Clear(s.Art.Colors().Background)
	return c.DrawScene(s, vp)
}

// DrawScene paints shapes and eyes over the current contents
func (c *ImageCanvas) DrawScene(s *Scene, vp Viewport) bool {
	ctm, ok := vp.ScreenCTM()
	if !ok {
		return false
	}
	colors := s.Art.Colors()

	for _, sh := range s.Art.Shapes {
		c.ellipseMask(c.mask, ctm, sh.Ellipse(), vmath.Vec2{})
		c.fill(c.mask, sh.Color(), sh.Alpha(), sh.Blend)
	}

	for i, eye := range s.Art.Eye {
		off := s.Offset(i)

		c.ellipseMask(c.clip, ctm, eye.Socket, vmath.Vec2{})
		c.fill(c.clip, colors.Sclera, 1, artwork.BlendNormal)

		c.ellipseMask(c.mask, ctm, eye.Pupil, off)
		c.intersect()
		c.fill(c.mask, colors.Pupil, 1, artwork.BlendNormal)

		for _, g := range eye.Glints {
			c.ellipseMask(c.mask, ctm, g, off)
			c.intersect()
			c.fill(c.mask, colors.Glint, 1, artwork.BlendNormal)
		}
	}
	return true
}

// ellipseMask rasterizes e (shifted by off) through ctm into dst
// Control points are transformed, so any affine ctm is exact
func (c *ImageCanvas) ellipseMask(dst *image.Alpha, ctm vmath.Affine, e artwork.Ellipse, off vmath.Vec2) {
	b := dst.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Src

	cx, cy := e.CX+off.X, e.CY+off.Y
	kx, ky := e.RX*kappa, e.RY*kappa
	pt := func(x, y float64) (float32, float32) {
		p := ctm.Apply(vmath.V(x, y))
		return float32(p.X), float32(p.Y)
	}
	cube := func(x1, y1, x2, y2, x3, y3 float64) {
		ax, ay := pt(x1, y1)
		bx, by := pt(x2, y2)
		qx, qy := pt(x3, y3)
		c.z.CubeTo(ax, ay, bx, by, qx, qy)
	}

	c.z.MoveTo(pt(cx+e.RX, cy))
	cube(cx+e.RX, cy+ky, cx+kx, cy+e.RY, cx, cy+e.RY)
	cube(cx-kx, cy+e.RY, cx-e.RX, cy+ky, cx-e.RX, cy)
	cube(cx-e.RX, cy-ky, cx-kx, cy-e.RY, cx, cy-e.RY)
	cube(cx+kx, cy-e.RY, cx+e.RX, cy-ky, cx+e.RX, cy)
	c.z.ClosePath()
	c.z.Draw(dst, b, image.Opaque, image.Point{})
}

// intersect restricts mask to clip
func (c *ImageCanvas) intersect() {
	for i, m := range c.mask.Pix {
		c.mask.Pix[i] = uint8((uint16(m)*uint16(c.clip.Pix[i]) + 127) / 255)
	}
}

func (c *ImageCanvas) fill(mask *image.Alpha, col artwork.Color, alpha float64, mode artwork.Blend) {
	if mode != artwork.BlendMultiply {
		draw.DrawMask(c.img, c.img.Bounds(), image.NewUniform(col.NRGBA(alpha)), image.Point{}, mask, image.Point{}, draw.Over)
		return
	}

	// Multiply has no Porter-Duff op; composite per pixel
	b := c.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := mask.Pix[mask.PixOffset(x, y)]
			if m == 0 {
				continue
			}
			i := c.img.PixOffset(x, y)
			p := c.img.Pix[i : i+4 : i+4]
			out := col.Over(artwork.Color{R: p[0], G: p[1], B: p[2]}, alpha*float64(m)/255, mode)
			p[0], p[1], p[2], p[3] = out.R, out.G, out.B, 255
		}
	}
}

// Downsample returns the canvas scaled by 1/factor with Catmull-Rom filtering
func (c *ImageCanvas) Downsample(factor int) *image.RGBA {
	if factor <= 1 {
		return c.img
	}
	b := c.img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, max(b.Dx()/factor, 1), max(b.Dy()/factor, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), c.img, b, draw.Src, nil)
	return dst
}

// Encode writes img in the given format
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("png encode: %w", err)
		}
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrFormat, f)
	}
	return nil
}

// Encode writes the canvas in the given format
func (c *ImageCanvas) Encode(w io.Writer, f Format) error {
	return Encode(w, c.img, f)
}

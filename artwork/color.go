package artwork

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque 24-bit RGB value
type Color struct {
	R, G, B uint8
}

// ParseHex parses "#rrggbb" or "#rgb"; the leading '#' is optional
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrColor, s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats as "#rrggbb"
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NRGBA converts to a non-premultiplied image color with the given opacity
func (c Color) NRGBA(opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(opacity)*255 + 0.5)}
}

// Floats returns components in [0,1] for GL vertex data
func (c Color) Floats() (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

// Over composites c onto dst with the given opacity and blend mode
func (c Color) Over(dst Color, opacity float64, mode Blend) Color {
	a := clamp01(opacity)
	src := c
	if mode == BlendMultiply {
		src = Color{R: mul8(dst.R, c.R), G: mul8(dst.G, c.G), B: mul8(dst.B, c.B)}
	}
	return Color{
		R: mix8(dst.R, src.R, a),
		G: mix8(dst.G, src.G, a),
		B: mix8(dst.B, src.B, a),
	}
}

// Blend selects how a shape combines with what is beneath it
type Blend string

const (
	BlendNormal   Blend = "normal"
	BlendMultiply Blend = "multiply"
)

func mul8(a, b uint8) uint8 {
	return uint8((uint16(a)*uint16(b) + 127) / 255)
}

func mix8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

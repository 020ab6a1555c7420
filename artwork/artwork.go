// Package artwork holds the static mascot drawing: view box, decorative
// shapes, eye geometry and palette. The built-in mascot is embedded as TOML;
// users may supply their own file with the same layout.
package artwork

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/robotrak/gaze"
	"github.com/lixenwraith/robotrak/vmath"
)

//go:embed mascot.toml
var mascotTOML []byte

var (
	ErrEyeCount = errors.New("artwork needs exactly two eyes")
	ErrGeometry = errors.New("invalid geometry")
	ErrColor    = errors.New("invalid color")
)

// Ellipse is an axis-aligned ellipse in view-box units
type Ellipse struct {
	CX float64 `toml:"cx"`
	CY float64 `toml:"cy"`
	RX float64 `toml:"rx"`
	RY float64 `toml:"ry"`
}

func (e Ellipse) Center() vmath.Vec2 { return vmath.V(e.CX, e.CY) }

func (e Ellipse) valid() bool {
	return e.RX > 0 && e.RY > 0 && vmath.V(e.CX, e.CY).IsFinite()
}

// Eye is the drawable description of one eye
// Glints belong to the pupil group and move with it
type Eye struct {
	Name   string    `toml:"name"`
	Socket Ellipse   `toml:"socket"`
	Pupil  Ellipse   `toml:"pupil"`
	Glints []Ellipse `toml:"glints"`
}

// Gaze converts to tracker geometry
func (e Eye) Gaze() gaze.Eye {
	return gaze.Eye{
		Name: e.Name,
		Socket: gaze.Socket{
			Center:  e.Socket.Center(),
			RadiusX: e.Socket.RX,
			RadiusY: e.Socket.RY,
		},
		Pupil: gaze.Pupil{
			InitialCenter: e.Pupil.Center(),
			RadiusX:       e.Pupil.RX,
			RadiusY:       e.Pupil.RY,
		},
	}
}

// Shape is a decorative filled ellipse drawn beneath the eyes
type Shape struct {
	Name    string  `toml:"name"`
	Kind    string  `toml:"kind,omitempty"`
	CX      float64 `toml:"cx"`
	CY      float64 `toml:"cy"`
	RX      float64 `toml:"rx"`
	RY      float64 `toml:"ry"`
	Fill    string  `toml:"fill"`
	Opacity float64 `toml:"opacity,omitempty"`
	Blend   Blend   `toml:"blend,omitempty"`
	Layer   int     `toml:"layer"`

	color Color
}

func (s Shape) Ellipse() Ellipse { return Ellipse{CX: s.CX, CY: s.CY, RX: s.RX, RY: s.RY} }

// Color returns the parsed fill
func (s Shape) Color() Color { return s.color }

// Alpha returns the effective opacity; an omitted opacity is fully opaque
func (s Shape) Alpha() float64 {
	if s.Opacity == 0 {
		return 1
	}
	return s.Opacity
}

// ViewBox is the artwork coordinate extent, origin at (0,0)
type ViewBox struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Palette holds the eye and background colors as hex strings
type Palette struct {
	Sclera     string `toml:"sclera"`
	Pupil      string `toml:"pupil"`
	Glint      string `toml:"glint"`
	Background string `toml:"background"`
}

// Colors is the parsed palette
type Colors struct {
	Sclera, Pupil, Glint, Background Color
}

// Artwork is a validated drawing
type Artwork struct {
	ViewBox ViewBox `toml:"view_box"`
	Palette Palette `toml:"palette"`
	Shapes  []Shape `toml:"shape"`
	Eye     []Eye   `toml:"eye"`

	colors Colors
}

// Default returns the embedded mascot
func Default() (*Artwork, error) {
	a, err := Parse(mascotTOML)
	if err != nil {
		return nil, fmt.Errorf("embedded mascot: %w", err)
	}
	return a, nil
}

// Load reads and validates an artwork file
func Load(path string) (*Artwork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artwork: %w", err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Open loads path, or the embedded mascot when path is empty
func Open(path string) (*Artwork, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes and validates TOML artwork
func Parse(data []byte) (*Artwork, error) {
	var a Artwork
	if err := toml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse artwork: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Artwork) validate() error {
	if !(a.ViewBox.Width > 0 && a.ViewBox.Height > 0) {
		return fmt.Errorf("view_box %vx%v: %w", a.ViewBox.Width, a.ViewBox.Height, ErrGeometry)
	}
	if len(a.Eye) != 2 {
		return fmt.Errorf("%w, got %d", ErrEyeCount, len(a.Eye))
	}

	for i, e := range a.Eye {
		if !e.Socket.valid() || !e.Pupil.valid() {
			return fmt.Errorf("eye[%d] %q: radii must be positive: %w", i, e.Name, ErrGeometry)
		}
		if e.Pupil.RX > e.Socket.RX || e.Pupil.RY > e.Socket.RY {
			return fmt.Errorf("eye[%d] %q: pupil larger than socket: %w", i, e.Name, ErrGeometry)
		}
		for j, g := range e.Glints {
			if !g.valid() {
				return fmt.Errorf("eye[%d] %q glint[%d]: radii must be positive: %w", i, e.Name, j, ErrGeometry)
			}
		}
	}

	for i := range a.Shapes {
		s := &a.Shapes[i]
		if s.Kind != "" && s.Kind != "ellipse" {
			return fmt.Errorf("shape[%d] %q: unknown kind %q: %w", i, s.Name, s.Kind, ErrGeometry)
		}
		if !s.Ellipse().valid() {
			return fmt.Errorf("shape[%d] %q: radii must be positive: %w", i, s.Name, ErrGeometry)
		}
		if s.Opacity < 0 || s.Opacity > 1 {
			return fmt.Errorf("shape[%d] %q: opacity %v outside [0,1]: %w", i, s.Name, s.Opacity, ErrGeometry)
		}
		switch s.Blend {
		case "":
			s.Blend = BlendNormal
		case BlendNormal, BlendMultiply:
		default:
			return fmt.Errorf("shape[%d] %q: unknown blend %q: %w", i, s.Name, s.Blend, ErrGeometry)
		}
		c, err := ParseHex(s.Fill)
		if err != nil {
			return fmt.Errorf("shape[%d] %q fill: %w", i, s.Name, err)
		}
		s.color = c
	}
	sort.SliceStable(a.Shapes, func(i, j int) bool { return a.Shapes[i].Layer < a.Shapes[j].Layer })

	var err error
	for _, p := range []struct {
		name string
		hex  string
		dst  *Color
	}{
		{"sclera", a.Palette.Sclera, &a.colors.Sclera},
		{"pupil", a.Palette.Pupil, &a.colors.Pupil},
		{"glint", a.Palette.Glint, &a.colors.Glint},
		{"background", a.Palette.Background, &a.colors.Background},
	} {
		if *p.dst, err = ParseHex(p.hex); err != nil {
			return fmt.Errorf("palette.%s: %w", p.name, err)
		}
	}

	// Left eye is the one further left in view-box space
	if a.Eye[0].Socket.CX > a.Eye[1].Socket.CX {
		a.Eye[0], a.Eye[1] = a.Eye[1], a.Eye[0]
	}
	return nil
}

// Colors returns the parsed palette
func (a *Artwork) Colors() Colors { return a.colors }

// Eyes returns tracker geometry ordered left to right
func (a *Artwork) Eyes() (left, right gaze.Eye) {
	return a.Eye[0].Gaze(), a.Eye[1].Gaze()
}

// Face builds a two-eye tracker from the artwork
func (a *Artwork) Face() *gaze.Face {
	return gaze.NewFace(a.Eyes())
}

// Encode writes the artwork back out as TOML
func (a *Artwork) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("encode artwork: %w", err)
	}
	return nil
}

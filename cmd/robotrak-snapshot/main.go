// Command robotrak-snapshot renders the mascot looking at one pointer
// position into a PNG or WebP image.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/gaze"
	"github.com/lixenwraith/robotrak/render"
	"github.com/lixenwraith/robotrak/vmath"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "robotrak-snapshot: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	x, y         float64
	local        bool
	out          string
	width        int
	height       int
	supersample  int
	artworkPath  string
	backdropPath string
	dumpArtwork  string
}

func parseFlags(args []string) (options, bool, error) {
	var o options
	fs := flag.NewFlagSet("robotrak-snapshot", flag.ContinueOnError)
	fs.Float64Var(&o.x, "x", 0, "pointer x in output pixels")
	fs.Float64Var(&o.y, "y", 0, "pointer y in output pixels")
	fs.BoolVar(&o.local, "local", false, "interpret -x/-y in artwork coordinates")
	fs.StringVar(&o.out, "out", "robotrak.png", "output image (.png or .webp)")
	fs.IntVar(&o.width, "w", 647, "output width in pixels")
	fs.IntVar(&o.height, "h", 450, "output height in pixels")
	fs.IntVar(&o.supersample, "ss", 2, "supersampling factor")
	fs.StringVar(&o.artworkPath, "artwork", "", "artwork TOML file (default: embedded mascot)")
	fs.StringVar(&o.backdropPath, "backdrop", "", "background image (png, jpeg, webp, tga)")
	fs.StringVar(&o.dumpArtwork, "dump-artwork", "", "write the artwork TOML to this path and exit")
	if err := fs.Parse(args); err != nil {
		return o, false, err
	}

	pointerSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "x" || f.Name == "y" {
			pointerSet = true
		}
	})
	if o.width <= 0 || o.height <= 0 {
		return o, false, fmt.Errorf("invalid size %dx%d", o.width, o.height)
	}
	o.supersample = max(1, min(o.supersample, 8))
	return o, pointerSet, nil
}

func run(args []string, stdout io.Writer) error {
	o, pointerSet, err := parseFlags(args)
	if err != nil {
		return err
	}

	art, err := artwork.Open(o.artworkPath)
	if err != nil {
		return err
	}
	if o.dumpArtwork != "" {
		return dumpArtwork(art, o.dumpArtwork)
	}

	format, err := render.FormatFromPath(o.out)
	if err != nil {
		return err
	}

	ss := o.supersample
	canvas := render.NewImageCanvas(o.width*ss, o.height*ss)
	vp := canvas.Viewport(art.ViewBox)

	scene := render.NewScene(art)
	if pointerSet {
		face := art.Face()
		if o.local {
			scene.Offsets = face.TrackLocal(vmath.V(o.x, o.y))
		} else {
			scene.Offsets = face.Track(vmath.V(o.x, o.y).Scale(float64(ss)), vp)
		}
	}

	canvas.Clear(art.Colors().Background)
	if o.backdropPath != "" {
		backdrop, err := loadImage(o.backdropPath)
		if err != nil {
			return err
		}
		canvas.DrawBackdrop(backdrop)
	}
	if !canvas.DrawScene(scene, vp) {
		return fmt.Errorf("cannot fit artwork into %dx%d", o.width, o.height)
	}

	if err := writeImage(o.out, canvas.Downsample(ss), format); err != nil {
		return err
	}
	report(stdout, o.out, scene.Offsets)
	return nil
}

func report(w io.Writer, path string, off gaze.FaceOffsets) {
	fmt.Fprintf(w, "wrote %s\n", path)
	if !off.Valid {
		fmt.Fprintln(w, "eyes at rest")
		return
	}
	fmt.Fprintf(w, "left  offset (%.2f, %.2f) saturated=%v\n", off.Left.X, off.Left.Y, off.LeftSaturated)
	fmt.Fprintf(w, "right offset (%.2f, %.2f) saturated=%v\n", off.Right.X, off.Right.Y, off.RightSaturated)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open backdrop: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode backdrop %s: %w", path, err)
	}
	return img, nil
}

func writeImage(path string, img image.Image, format render.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render.Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func dumpArtwork(art *artwork.Artwork, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artwork dump: %w", err)
	}
	if err := art.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package config

import (
	"flag"
)

// Flags are the command-line overrides shared by the binaries
// Only flags given on the command line replace configured values
type Flags struct {
	fs *flag.FlagSet

	ConfigPath string
	Artwork    string
	Color      string
	FPS        int
	Smoothing  float64
	Debug      bool
	Mute       bool
}

// RegisterFlags defines the override flags on fs
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Defaults()
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "config file (default ~/.config/robotrak/config.toml)")
	fs.StringVar(&f.Artwork, "artwork", "", "artwork TOML file (default: embedded mascot)")
	fs.StringVar(&f.Color, "color", d.Render.ColorMode, "color mode: auto, truecolor, 256")
	fs.IntVar(&f.FPS, "fps", d.Render.FPS, "frame rate")
	fs.Float64Var(&f.Smoothing, "smoothing", d.Gaze.Smoothing, "pupil easing rate per second (0 snaps)")
	fs.BoolVar(&f.Debug, "debug", false, "write a debug log")
	fs.BoolVar(&f.Mute, "mute", false, "disable audio")
	return f
}

// Load reads the configuration, then applies the flags that were set
func (f *Flags) Load() (Config, error) {
	c, err := LoadFile(f.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	return f.Apply(c), nil
}

// Apply overrides c with every flag present on the command line
func (f *Flags) Apply(c Config) Config {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "artwork":
			c.Artwork.Path = f.Artwork
		case "color":
			c.Render.ColorMode = f.Color
		case "fps":
			c.Render.FPS = f.FPS
		case "smoothing":
			c.Gaze.Smoothing = f.Smoothing
		case "debug":
			c.Log.Debug = f.Debug
		case "mute":
			if f.Mute {
				c.Audio.Enabled = false
			}
		}
	})
	return Validate(c)
}

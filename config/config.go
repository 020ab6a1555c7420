// Package config loads application settings from defaults, an optional TOML
// file and ROBOTRAK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Artwork ArtworkConfig `mapstructure:"artwork"`
	Render  RenderConfig  `mapstructure:"render"`
	Gaze    GazeConfig    `mapstructure:"gaze"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Log     LogConfig     `mapstructure:"log"`
	Window  WindowConfig  `mapstructure:"window"`
}

// ArtworkConfig selects the drawing; empty path means the built-in mascot
type ArtworkConfig struct {
	Path string `mapstructure:"path"`
}

// RenderConfig holds terminal presentation settings
type RenderConfig struct {
	CellAspect float64 `mapstructure:"cell_aspect"`
	FPS        int     `mapstructure:"fps"`
	ColorMode  string  `mapstructure:"color_mode"`
}

// GazeConfig holds tracking settings
type GazeConfig struct {
	Smoothing float64 `mapstructure:"smoothing"` // 1/s, 0 disables
}

// AudioConfig holds saturation chirp settings
type AudioConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Volume      float64       `mapstructure:"volume"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// LogConfig holds debug logging settings
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Dir   string `mapstructure:"dir"`
}

// WindowConfig holds desktop window settings
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Render: RenderConfig{CellAspect: 2.0, FPS: 60, ColorMode: "auto"},
		Gaze:   GazeConfig{Smoothing: 0},
		Audio:  AudioConfig{Enabled: false, Volume: 0.5, MinInterval: 250 * time.Millisecond},
		Log:    LogConfig{Debug: false, Dir: "logs"},
		Window: WindowConfig{Width: 960, Height: 667},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix ROBOTRAK_.
// The file is $ROBOTRAK_CONFIG or ~/.config/robotrak/config.toml; a missing
// file is not an error, a malformed one is.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; an empty path falls back to
// $ROBOTRAK_CONFIG and then the default location. A named file must exist.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("artwork.path", d.Artwork.Path)
	v.SetDefault("render.cell_aspect", d.Render.CellAspect)
	v.SetDefault("render.fps", d.Render.FPS)
	v.SetDefault("render.color_mode", d.Render.ColorMode)
	v.SetDefault("gaze.smoothing", d.Gaze.Smoothing)
	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.volume", d.Audio.Volume)
	v.SetDefault("audio.min_interval", d.Audio.MinInterval)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)

	v.SetConfigType("toml")

	cfgPath := path
	if cfgPath == "" {
		cfgPath = os.Getenv("ROBOTRAK_CONFIG")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "robotrak"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ROBOTRAK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case cfgPath != "" && errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("config file %s: %w", cfgPath, err)
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Printf("config: loaded %s", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return Validate(c), nil
}

// Validate clamps out-of-range values back into a usable configuration
func Validate(c Config) Config {
	d := Defaults()

	if !(c.Render.CellAspect > 0) || math.IsInf(c.Render.CellAspect, 0) {
		c.Render.CellAspect = d.Render.CellAspect
	}
	c.Render.CellAspect = clamp(c.Render.CellAspect, 0.5, 4)

	if c.Render.FPS <= 0 {
		c.Render.FPS = d.Render.FPS
	}
	c.Render.FPS = min(c.Render.FPS, 240)

	switch strings.ToLower(strings.TrimSpace(c.Render.ColorMode)) {
	case "256", "truecolor", "true", "24bit":
		c.Render.ColorMode = strings.ToLower(strings.TrimSpace(c.Render.ColorMode))
	default:
		c.Render.ColorMode = "auto"
	}

	if !(c.Gaze.Smoothing >= 0) || math.IsInf(c.Gaze.Smoothing, 0) {
		c.Gaze.Smoothing = 0
	}

	if !(c.Audio.Volume >= 0) {
		c.Audio.Volume = d.Audio.Volume
	}
	c.Audio.Volume = clamp(c.Audio.Volume, 0, 1)
	if c.Audio.MinInterval < 0 {
		c.Audio.MinInterval = d.Audio.MinInterval
	}

	c.Log.Dir = strings.TrimSpace(c.Log.Dir)
	if c.Log.Dir == "" {
		c.Log.Dir = d.Log.Dir
	}

	if c.Window.Width < 64 {
		c.Window.Width = d.Window.Width
	}
	if c.Window.Height < 64 {
		c.Window.Height = d.Window.Height
	}

	c.Artwork.Path = strings.TrimSpace(c.Artwork.Path)
	return c
}

// FrameInterval converts the FPS setting into a ticker period
func (c Config) FrameInterval() time.Duration {
	if c.Render.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Render.FPS)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

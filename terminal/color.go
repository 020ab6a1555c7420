package terminal

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/robotrak/artwork"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// ParseColorMode maps a flag value; anything unrecognized means auto-detect
func ParseColorMode(s string) ColorMode {
	switch strings.ToLower(s) {
	case "256":
		return ColorMode256
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor
	}
	return DetectColorMode()
}

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// Channel levels of the 6x6x6 xterm cube (palette 16-231)
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// nearestLevel maps each channel value to its closest cube level index
var nearestLevel = func() (t [256]uint8) {
	for v := range t {
		best := 0
		for k := range cubeLevels {
			if abs(v-cubeLevels[k]) < abs(v-cubeLevels[best]) {
				best = k
			}
		}
		t[v] = uint8(best)
	}
	return t
}()

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// cubeError is the channel distance between c and its cube approximation
func cubeError(r, g, b int) int {
	return abs(r-cubeLevels[nearestLevel[r]]) +
		abs(g-cubeLevels[nearestLevel[g]]) +
		abs(b-cubeLevels[nearestLevel[b]])
}

// RGBTo256 finds the nearest xterm-256 palette index
// Near-neutral colors may land on the 24-step gray ramp (232-255, levels 8..238)
func RGBTo256(c artwork.Color) uint8 {
	r, g, b := int(c.R), int(c.G), int(c.B)
	cube := uint8(16 + 36*int(nearestLevel[r]) + 6*int(nearestLevel[g]) + int(nearestLevel[b]))

	luma := (r + g + b) / 3
	if max(abs(r-luma), abs(g-luma), abs(b-luma)) >= 10 {
		return cube
	}
	switch {
	case luma < 4:
		return 16
	case luma > 243:
		return 231
	}

	step := min((luma-8)/10, 23)
	level := 8 + step*10
	if abs(r-level)+abs(g-level)+abs(b-level) < cubeError(r, g, b) {
		return uint8(232 + step)
	}
	return cube
}

// Variables set only by emulators known to render 24-bit color
var truecolorHosts = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"WEZTERM_PANE",
}

// DetectColorMode inspects the process environment
func DetectColorMode() ColorMode {
	return detectColorMode(os.Getenv)
}

func detectColorMode(getenv func(string) string) ColorMode {
	switch strings.ToLower(getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return ColorModeTrueColor
	}
	for _, key := range truecolorHosts {
		if getenv(key) != "" {
			return ColorModeTrueColor
		}
	}
	term := strings.ToLower(getenv("TERM"))
	for _, hint := range []string{"truecolor", "24bit", "direct"} {
		if strings.Contains(term, hint) {
			return ColorModeTrueColor
		}
	}
	return ColorMode256
}

// tcellColor converts for the given mode
func tcellColor(c artwork.Color, mode ColorMode) tcell.Color {
	if mode == ColorMode256 {
		return tcell.PaletteColor(int(RGBTo256(c)))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

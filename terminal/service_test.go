package terminal

import (
	"bytes"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/pointer"
	"github.com/lixenwraith/robotrak/render"
	"github.com/lixenwraith/robotrak/vmath"
)

func newSimService(t *testing.T) (*Service, tcell.SimulationScreen, *pointer.Hub) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	hub := pointer.NewHub()
	svc := NewService(hub, screen)
	if err := svc.Init(ColorModeTrueColor); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(80, 24)
	svc.Handle(tcell.NewEventResize(80, 24))
	t.Cleanup(func() { svc.Stop() })
	return svc, screen, hub
}

func TestHandleMousePublishesCellCenter(t *testing.T) {
	svc, _, hub := newSimService(t)

	var got []pointer.Event
	sub := hub.Subscribe(func(ev pointer.Event) { got = append(got, ev) })
	defer sub.Close()

	tests := []struct {
		name    string
		x, y    int
		buttons tcell.ButtonMask
	}{
		{"motion", 10, 5, tcell.ButtonNone},
		{"drag", 0, 0, tcell.Button1},
		{"click", 79, 23, tcell.Button1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = got[:0]
			act := svc.Handle(tcell.NewEventMouse(tt.x, tt.y, tt.buttons, tcell.ModNone))
			if act != ActionRedraw {
				t.Errorf("action = %v, want redraw", act)
			}
			if len(got) != 1 {
				t.Fatalf("published %d events, want 1", len(got))
			}
			want := vmath.V(float64(tt.x)+0.5, float64(tt.y)+0.5)
			if got[0].Pos != want || got[0].Source != Source {
				t.Errorf("event = %+v, want pos %+v", got[0], want)
			}
		})
	}
}

func TestHandleKeysAndResize(t *testing.T) {
	svc, _, _ := newSimService(t)

	tests := []struct {
		name string
		ev   tcell.Event
		want Action
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionQuit},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionQuit},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionNone},
		{"resize", tcell.NewEventResize(100, 30), ActionResize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Handle(tt.ev); got != tt.want {
				t.Errorf("Handle = %v, want %v", got, tt.want)
			}
		})
	}

	if w, h := svc.Size(); w != 100 || h != 30 {
		t.Errorf("size after resize = %dx%d", w, h)
	}
	vp := svc.Viewport(artwork.ViewBox{Width: 10, Height: 10}, render.CellAspect)
	if vp.Host.W != 100 || vp.Host.H != 30 || vp.PixelAspect != render.CellAspect {
		t.Errorf("viewport = %+v", vp)
	}
}

func TestPollLoopForwardsEvents(t *testing.T) {
	svc, screen, _ := newSimService(t)
	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}

	screen.InjectMouse(7, 3, tcell.ButtonNone, tcell.ModNone)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-svc.Events():
			if m, ok := ev.(*tcell.EventMouse); ok {
				if x, y := m.Position(); x != 7 || y != 3 {
					t.Errorf("position = %d,%d", x, y)
				}
				return
			}
		case <-deadline:
			t.Fatal("mouse event not forwarded")
		}
	}
}

func TestStopIdempotent(t *testing.T) {
	svc, _, _ := newSimService(t)
	svc.Start()

	done := make(chan struct{})
	go func() {
		svc.Stop()
		svc.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked")
	}

	// Start after Stop stays stopped
	if err := svc.Start(); err != nil {
		t.Errorf("Start after Stop: %v", err)
	}
}

func TestStopWithoutInit(t *testing.T) {
	svc := NewService(pointer.NewHub(), tcell.NewSimulationScreen("UTF-8"))
	if err := svc.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestFlush(t *testing.T) {
	svc, screen, _ := newSimService(t)

	c := render.NewCellCanvas(2, 1)
	c.Fill(artwork.Color{R: 1, G: 2, B: 3})
	art, err := artwork.Default()
	if err != nil {
		t.Fatal(err)
	}
	scene := render.NewScene(art)
	big := render.NewCellCanvas(80, 24)
	big.DrawScene(scene, svc.Viewport(art.ViewBox, render.CellAspect))
	svc.Flush(big)
	svc.Flush(c)

	r, _, style, _ := screen.GetContent(0, 0)
	if r != ' ' {
		t.Errorf("rune = %q", r)
	}
	fg, bg, _ := style.Decompose()
	want := tcell.NewRGBColor(1, 2, 3)
	if fg != want || bg != want {
		t.Errorf("colors = %v/%v, want %v", fg, bg, want)
	}

	// Cells beyond the small canvas keep the scene
	r, _, _, _ = screen.GetContent(40, 12)
	if r != ' ' && r != render.HalfBlock {
		t.Errorf("scene cell rune = %q", r)
	}
}

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		name string
		c    artwork.Color
		want uint8
	}{
		{"black", artwork.Color{}, 16},
		{"white", artwork.Color{R: 255, G: 255, B: 255}, 231},
		{"pure red", artwork.Color{R: 255}, 196},
		{"mid gray", artwork.Color{R: 128, G: 128, B: 128}, 244},
		{"navy pupil", artwork.Color{R: 0x07, G: 0x00, B: 0x4d}, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RGBTo256(tt.c); got != tt.want {
				t.Errorf("RGBTo256(%+v) = %d, want %d", tt.c, got, tt.want)
			}
		})
	}
}

func TestEmergencyResetWritesSequences(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)
	for _, seq := range [][]byte{csiMouseMotionOff, csiCursorShow, csiAltScreenExit, csiSGR0} {
		if !bytes.Contains(buf.Bytes(), seq) {
			t.Errorf("missing sequence %q", seq)
		}
	}
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want ColorMode
	}{
		{"empty", nil, ColorMode256},
		{"colorterm", map[string]string{"COLORTERM": "truecolor"}, ColorModeTrueColor},
		{"colorterm upper", map[string]string{"COLORTERM": "24BIT"}, ColorModeTrueColor},
		{"kitty", map[string]string{"KITTY_WINDOW_ID": "1"}, ColorModeTrueColor},
		{"term direct", map[string]string{"TERM": "xterm-direct"}, ColorModeTrueColor},
		{"plain xterm", map[string]string{"TERM": "xterm-256color"}, ColorMode256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			if got := detectColorMode(getenv); got != tt.want {
				t.Errorf("detectColorMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := map[string]ColorMode{
		"256":       ColorMode256,
		"truecolor": ColorModeTrueColor,
		"24BIT":     ColorModeTrueColor,
	}
	for in, want := range tests {
		if got := ParseColorMode(in); got != want {
			t.Errorf("ParseColorMode(%q) = %v, want %v", in, got, want)
		}
	}
}

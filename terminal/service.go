package terminal

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/pointer"
	"github.com/lixenwraith/robotrak/render"
	"github.com/lixenwraith/robotrak/vmath"
)

// Source tags pointer events published by this host
const Source = "terminal"

// Action tells the main loop what an input event requires
type Action uint8

const (
	ActionNone Action = iota
	ActionRedraw
	ActionResize
	ActionQuit
)

// Service owns the tcell screen and its input polling
// Raw events are forwarded on Events(); the main loop passes them back to
// Handle so that pointer publishing happens on a single goroutine
type Service struct {
	hub       *pointer.Hub
	screen    tcell.Screen
	colorMode ColorMode
	eventCh   chan tcell.Event
	stopCh    chan struct{}
	doneCh    chan struct{}

	mu      sync.Mutex
	inited  bool
	running bool
	stopped bool

	width, height int
}

// NewService creates a terminal service publishing on hub
// A nil screen is created from the environment during Init
func NewService(hub *pointer.Hub, screen tcell.Screen) *Service {
	return &Service{
		hub:     hub,
		screen:  screen,
		eventCh: make(chan tcell.Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "terminal"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// An optional ColorMode arg overrides environment detection
func (s *Service) Init(args ...any) error {
	s.colorMode = DetectColorMode()
	if len(args) > 0 {
		if cm, ok := args[0].(ColorMode); ok {
			s.colorMode = cm
		}
	}

	if s.screen == nil {
		if s.colorMode == ColorMode256 {
			// tcell reads this before probing terminfo
			os.Setenv("TCELL_TRUECOLOR", "disable")
		}
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal create: %w", err)
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	s.screen.EnableMouse(tcell.MouseMotionEvents)
	s.screen.HideCursor()
	s.width, s.height = s.screen.Size()

	s.mu.Lock()
	s.inited = true
	s.mu.Unlock()

	log.Printf("terminal: %dx%d cells, %s color", s.width, s.height, s.colorMode)
	return nil
}

// Start implements service.Service - launches input polling goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.running || s.stopped || !s.inited {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	go s.pollLoop()
	return nil
}

// pollLoop reads input events until the screen is finalized
func (s *Service) pollLoop() {
	defer close(s.doneCh)

	defer func() {
		if r := recover(); r != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\nrobotrak: input poll panic: %v\r\n%s\r\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// Fini closes the event queue
			return
		}

		select {
		case s.eventCh <- ev:
		case <-s.stopCh:
			return
		}
	}
}

// Stop implements service.Service - stops polling and restores the terminal
func (s *Service) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	wasRunning := s.running
	inited := s.inited
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	if inited {
		s.screen.Fini()
	}
	if wasRunning {
		<-s.doneCh
	}
	return nil
}

// Events returns the raw input event channel
func (s *Service) Events() <-chan tcell.Event {
	return s.eventCh
}

// Screen returns the wrapped screen
func (s *Service) Screen() tcell.Screen {
	return s.screen
}

// Size returns the last known size in cells
func (s *Service) Size() (w, h int) {
	return s.width, s.height
}

// Viewport fits a view box into the whole screen
func (s *Service) Viewport(vb artwork.ViewBox, cellAspect float64) render.Viewport {
	return render.Viewport{
		ViewBox:     vb,
		Host:        render.Rect{W: float64(s.width), H: float64(s.height)},
		PixelAspect: cellAspect,
	}
}

// Handle interprets one input event
// Mouse events of every kind (motion, drag, click) publish the cell center
func (s *Service) Handle(ev tcell.Event) Action {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		s.hub.Publish(pointer.Event{
			Pos:    vmath.V(float64(x)+0.5, float64(y)+0.5),
			Time:   ev.When(),
			Source: Source,
		})
		return ActionRedraw

	case *tcell.EventResize:
		s.width, s.height = ev.Size()
		if s.screen != nil {
			s.screen.Sync()
		}
		log.Printf("terminal: resized to %dx%d", s.width, s.height)
		return ActionResize

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return ActionQuit
		case tcell.KeyRune:
			if ev.Rune() == 'q' || ev.Rune() == 'Q' {
				return ActionQuit
			}
		}
	}
	return ActionNone
}

// Flush writes the canvas to the screen and shows it
func (s *Service) Flush(c *render.CellCanvas) {
	w, h := c.Size()
	for y := 0; y < h && y < s.height; y++ {
		for x := 0; x < w && x < s.width; x++ {
			cell := c.Cell(x, y)
			style := tcell.StyleDefault.
				Foreground(tcellColor(cell.Fg, s.colorMode)).
				Background(tcellColor(cell.Bg, s.colorMode))
			s.screen.SetContent(x, y, cell.Rune, nil, style)
		}
	}
	s.screen.Show()
}

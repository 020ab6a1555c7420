// Package engine connects the gaze face to a pointer stream as a service and
// turns the latest offsets into per-frame output for the hosts.
package engine

import (
	"log"
	"sync"
	"time"

	"github.com/lixenwraith/robotrak/gaze"
	"github.com/lixenwraith/robotrak/pointer"
)

// TrackingService owns the face's pointer subscription
// The subscription is acquired in Start and released in Stop
type TrackingService struct {
	hub     *pointer.Hub
	face    *gaze.Face
	surface gaze.Surface
	deps    []string
	clock   Clock

	observers []func(gaze.FaceOffsets)
	smoother  *gaze.FaceSmoother

	mu       sync.Mutex
	sub      *pointer.Subscription
	latest   gaze.FaceOffsets
	shown    gaze.FaceOffsets
	events   uint64
	lastTick time.Time
}

// NewTrackingService creates the service; deps name the host services that
// must be up before pointer events can be mapped through surface
func NewTrackingService(hub *pointer.Hub, face *gaze.Face, surface gaze.Surface, deps ...string) *TrackingService {
	return &TrackingService{
		hub:      hub,
		face:     face,
		surface:  surface,
		deps:     deps,
		clock:    SystemClock{},
		smoother: gaze.NewFaceSmoother(0),
	}
}

// Name implements service.Service
func (s *TrackingService) Name() string {
	return "tracking"
}

// Dependencies implements service.Service
func (s *TrackingService) Dependencies() []string {
	return s.deps
}

// Init implements service.Service
// args[0]: float64 smoothing rate (optional, 0 snaps)
// args[1]: Clock (optional, defaults to SystemClock)
func (s *TrackingService) Init(args ...any) error {
	if len(args) > 0 {
		if rate, ok := args[0].(float64); ok {
			s.smoother = gaze.NewFaceSmoother(rate)
		}
	}
	if len(args) > 1 {
		if c, ok := args[1].(Clock); ok && c != nil {
			s.clock = c
		}
	}
	return nil
}

// OnUpdate registers fn to run after every tracked pointer event
// Must be called before Start
func (s *TrackingService) OnUpdate(fn func(gaze.FaceOffsets)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Start implements service.Service - subscribes the face to the hub
func (s *TrackingService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub != nil {
		return nil
	}
	s.sub = s.face.Bind(s.hub, s.surface, s.apply)
	s.lastTick = s.clock.Now()
	return nil
}

// Stop implements service.Service - releases the subscription
func (s *TrackingService) Stop() error {
	s.mu.Lock()
	sub, events := s.sub, s.events
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Close()
		log.Printf("tracking: stopped after %d pointer events", events)
	}
	return nil
}

// apply runs on the publisher's goroutine for each pointer event
func (s *TrackingService) apply(o gaze.FaceOffsets) {
	s.mu.Lock()
	s.latest = o
	s.events++
	s.mu.Unlock()

	for _, fn := range s.observers {
		fn(o)
	}
}

// Latest returns the offsets from the most recent pointer event
func (s *TrackingService) Latest() gaze.FaceOffsets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Events returns the number of pointer events tracked so far
func (s *TrackingService) Events() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}

// Frame advances the smoother to the clock's current time
// changed reports whether the output differs from the previous frame
func (s *TrackingService) Frame() (out gaze.FaceOffsets, changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	dt := now.Sub(s.lastTick)
	s.lastTick = now

	out = s.smoother.Step(s.latest, dt)
	changed = out != s.shown
	s.shown = out
	return out, changed
}

// Reset returns the face to rest and forgets all tracked state
func (s *TrackingService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.face.Reset()
	s.latest = gaze.FaceOffsets{}
	s.shown = gaze.FaceOffsets{}
	s.smoother.Reset()
}

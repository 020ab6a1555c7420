package audio

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/robotrak/config"
	"github.com/lixenwraith/robotrak/gaze"
)

// Service wraps SoundManager as a service.Service
// With no usable backend it stays registered but silent
type Service struct {
	sm       *SoundManager
	trigger  SaturationTrigger
	disabled atomic.Bool
}

func NewService() *Service {
	return &Service{}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: config.AudioConfig (optional, defaults to config.Defaults().Audio)
// A missing device sets the disabled flag; no error is returned
func (s *Service) Init(args ...any) error {
	cfg := config.Defaults().Audio
	if len(args) > 0 {
		if c, ok := args[0].(config.AudioConfig); ok {
			cfg = c
		}
	}

	s.sm = NewSoundManager(cfg.Volume, cfg.MinInterval)
	if !cfg.Enabled {
		s.disabled.Store(true)
		return nil
	}
	if err := s.sm.Initialize(); err != nil {
		log.Printf("audio: disabled: %v", err)
		s.disabled.Store(true)
	}
	return nil
}

// Start announces tracking with the wake beep
func (s *Service) Start() error {
	if s.IsDisabled() {
		return nil
	}
	s.sm.PlayWake()
	return nil
}

// Stop closes the speaker
func (s *Service) Stop() error {
	if s.sm != nil {
		s.sm.Cleanup()
	}
	return nil
}

// IsDisabled returns true if audio is unavailable or switched off
func (s *Service) IsDisabled() bool {
	return s.disabled.Load() || s.sm == nil
}

// Observe feeds one frame of offsets and chirps on a saturation edge
// Returns true when a chirp was queued
func (s *Service) Observe(o gaze.FaceOffsets) bool {
	if !s.trigger.Observe(o) || s.IsDisabled() {
		return false
	}
	return s.sm.PlayChirp()
}

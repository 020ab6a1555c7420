// @focus: #sys { audio }
// Package audio plays short synthesized cues through the speaker: a wake
// beep when tracking starts and a rising chirp when a pupil reaches the
// edge of its socket.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	chirpFrom     = 660.0
	chirpTo       = 1320.0
	chirpDuration = 90 * time.Millisecond

	wakeFreq     = 880.0
	wakeDuration = 120 * time.Millisecond
)

// SoundManager owns the speaker and mixes one-shot cues into it
// Every method is safe before Initialize or after Cleanup; the calls are silent
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	minInterval time.Duration
	lastChirp   time.Time
	now         func() time.Time
	initialized bool
}

// NewSoundManager creates a manager with volume in [0,1] and a chirp rate limit
func NewSoundManager(volume float64, minInterval time.Duration) *SoundManager {
	return &SoundManager{
		mixer:       &beep.Mixer{},
		volume:      volume,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Initialize opens the speaker at 48 kHz with a 100 ms buffer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Initialized reports whether the speaker is live
func (sm *SoundManager) Initialized() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Cleanup drops queued cues and closes the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// SetVolume changes the level applied to cues queued afterwards
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.volume = math.Max(0, math.Min(1, v))
}

// PlayChirp queues the saturation chirp
// Returns false when silent or still inside the rate-limit window
func (sm *SoundManager) PlayChirp() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || !sm.allow(sm.now()) {
		return false
	}

	chirp := NewChirpGenerator(sampleRate, chirpFrom, chirpTo, chirpDuration)
	sm.add(newVolume(chirp, sm.volume))
	return true
}

// PlayWake queues a short beep announcing that tracking started
func (sm *SoundManager) PlayWake() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	sine, err := generators.SineTone(sampleRate, wakeFreq)
	if err != nil {
		return
	}
	tone := beep.Take(sampleRate.N(wakeDuration), sine)
	sm.add(newVolume(tone, sm.volume*0.5))
}

// allow applies the chirp rate limit and records t on success
func (sm *SoundManager) allow(t time.Time) bool {
	if !sm.lastChirp.IsZero() && t.Sub(sm.lastChirp) < sm.minInterval {
		return false
	}
	sm.lastChirp = t
	return true
}

// add hands s to the mixer under the speaker lock
func (sm *SoundManager) add(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// newVolume scales s linearly; math.Log2(0) is -Inf, so zero is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

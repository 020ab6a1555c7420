// Package service runs long-lived host subsystems (terminal, window, audio,
// gaze tracking) through an ordered lifecycle.
package service

// Service is a host subsystem owning a screen, window, audio device or
// pointer subscription
//
// The Hub calls, in order: Init with the args given at Register, Start once
// every service is initialized, and Stop on shutdown or rollback
type Service interface {
	// Name is unique within a Hub
	Name() string

	// Dependencies names services that Init and Start earlier and Stop later
	Dependencies() []string

	Init(args ...any) error

	// Start may launch goroutines or acquire subscriptions
	Start() error

	// Stop releases everything Init and Start acquired
	// It may be called more than once, and without a prior Start
	Stop() error
}

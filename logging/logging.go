// Package logging routes the standard logger to a debug file or discards it.
// A full-screen terminal UI must never write logs to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	// FileName is the active log inside the log directory
	FileName = "robotrak.log"
	// MaxSize triggers rotation of the active log at startup
	MaxSize = 10 * 1024 * 1024
)

// Setup configures the standard logger
// With debug off, output goes to io.Discard and nil is returned. With debug
// on, logs append to dir/FileName; an oversized log is first renamed with a
// timestamp. The caller closes the returned file on exit.
func Setup(debug bool, dir string) (*os.File, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && info.Size() > MaxSize {
		rotated := filepath.Join(dir, fmt.Sprintf("robotrak-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(path, rotated); err != nil {
			log.SetOutput(io.Discard)
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, fmt.Errorf("open log: %w", err)
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	log.Printf("=== robotrak started (pid %d) ===", os.Getpid())
	return f, nil
}

package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupDisabledByDefault(t *testing.T) {
	logFile, err := Setup(false, t.TempDir())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if logFile != nil {
		t.Error("debug off returned a file")
		logFile.Close()
	}

	if output := log.Writer(); output != io.Discard {
		t.Errorf("log writer = %v, want io.Discard", output)
	}
}

func TestSetupEnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logFile, err := Setup(true, dir)
	if err != nil || logFile == nil {
		t.Fatalf("Setup: file=%v err=%v", logFile, err)
	}
	defer func() {
		log.SetOutput(io.Discard)
		logFile.Close()
	}()

	logPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("log file: %v", err)
	}

	log.Printf("gaze: offset (10.43, 0)")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "gaze: offset (10.43, 0)") {
		t.Errorf("log file = %q", data)
	}

	if output := log.Writer(); output == os.Stdout || output == os.Stderr {
		t.Error("debug log went to a standard stream")
	}
}

func TestSetupRotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, FileName)

	if err := os.WriteFile(logPath, make([]byte, MaxSize+1), 0644); err != nil {
		t.Fatal(err)
	}

	logFile, err := Setup(true, dir)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() {
		log.SetOutput(io.Discard)
		logFile.Close()
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	rotated := 0
	for _, e := range entries {
		if e.Name() != FileName && filepath.Ext(e.Name()) == ".log" {
			rotated++
		}
	}
	if rotated != 1 {
		t.Errorf("rotated files = %d, want 1", rotated)
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() > MaxSize {
		t.Errorf("fresh log is %d bytes, limit %d", info.Size(), MaxSize)
	}
}

func TestSetupBadDirectory(t *testing.T) {
	// A regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Setup(true, filepath.Join(blocker, "logs"))
	if err == nil {
		f.Close()
		t.Fatal("expected error")
	}
	if log.Writer() != io.Discard {
		t.Error("failed setup should discard logs")
	}
}

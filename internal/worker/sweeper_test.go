package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "1000_audio.wav")
	fresh := filepath.Join(dir, "2000_audio.wav")
	for _, p := range []string{stale, fresh} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	s := NewSweeper(dir, time.Hour, time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d files, want 1", n)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file should survive: %v", err)
	}
}

func TestSweepIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "keep")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-3 * time.Hour)
	os.Chtimes(sub, old, old)

	s := NewSweeper(dir, time.Hour, time.Minute)
	if n := s.Sweep(); n != 0 {
		t.Errorf("Sweep removed %d entries, want 0", n)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Errorf("directories must be left alone: %v", err)
	}
}

func TestSweeperStartStop(t *testing.T) {
	s := NewSweeper(t.TempDir(), time.Hour, 5*time.Millisecond)
	s.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	s.Stop() // must not hang or panic
}

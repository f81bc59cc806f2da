// Package worker runs the background sweeper that removes orphaned
// transient artifacts. Pipelines delete their own files; the sweeper only
// catches leftovers from crashed or interrupted requests.
package worker

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sweeper periodically deletes stale files from the temp directory
type Sweeper struct {
	dir      string
	ttl      time.Duration
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewSweeper creates a sweeper for dir, removing files older than ttl
func NewSweeper(dir string, ttl, interval time.Duration) *Sweeper {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Sweeper{
		dir:      dir,
		ttl:      ttl,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins sweeping in the background
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
	log.Printf("Sweeper started (dir=%s ttl=%s)", s.dir, s.ttl)
}

// Stop gracefully stops the sweeper
func (s *Sweeper) Stop() {
	close(s.stop)
	s.wg.Wait()
	log.Println("Sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("Sweeper removed %d stale artifacts", n)
			}
		}
	}
}

// Sweep removes stale files once and returns how many were deleted.
// Failures are logged and skipped.
func (s *Sweeper) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("Sweeper: failed to read %s: %v", s.dir, err)
		return 0
	}

	cutoff := time.Now().Add(-s.ttl)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("Sweeper: failed to remove %s: %v", path, err)
			continue
		}
		removed++
	}

	return removed
}

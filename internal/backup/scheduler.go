// Package backup writes periodic snapshot exports of the active library to
// a local directory.
package backup

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"librismundis/internal/library"
	"librismundis/internal/snapshot"
)

// Scheduler runs snapshot exports on a cron schedule.
type Scheduler struct {
	lib      *library.Library
	dir      string
	schedule string

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewScheduler(lib *library.Library, dir, schedule string) *Scheduler {
	return &Scheduler{
		lib:      lib,
		dir:      dir,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the backup job. Calling Start twice is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(); err != nil {
			log.Printf("Error writing backup: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Backup scheduler: started with schedule '%s', writing to %s", s.schedule, s.dir)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		log.Printf("Backup scheduler: shutdown timed out with a job still running")
	}
	s.isRunning = false
	log.Printf("Backup scheduler: stopped")
}

// RunOnce writes a single dated backup file and returns its path.
func (s *Scheduler) RunOnce() (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	data, err := snapshot.Export(s.lib).Marshal()
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("librismundis_backup_%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	log.Printf("Backup written to %s", path)
	return path, nil
}

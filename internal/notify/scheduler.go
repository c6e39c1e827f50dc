package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the scanner on a fixed cadence. It owns a single timer:
// Start while running and Stop while stopped are no-ops, so double
// scheduling is impossible.
type Scheduler struct {
	scanner  *Scanner
	interval time.Duration
	loc      *time.Location
	log      *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

func NewScheduler(scanner *Scanner, interval time.Duration, loc *time.Location, log *slog.Logger) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		interval: interval,
		loc:      loc,
		log:      log,
	}
}

// Start begins the periodic sweep and fires one immediately, so a fresh
// process does not wait a full period before its first scan.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), s.tick); err != nil {
		return fmt.Errorf("schedule scan: %w", err)
	}
	c.Start()

	s.cron = c
	s.started = true
	s.log.Info("notification scheduler started", "interval", s.interval, "tz", s.loc.String())

	go s.tick()
	return nil
}

// Stop cancels future ticks. An in-flight tick runs to completion, and
// queued jobs keep draining independently.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}

	<-s.cron.Stop().Done()
	s.cron = nil
	s.started = false
	s.log.Info("notification scheduler stopped")
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	if err := s.scanner.Scan(ctx, time.Now()); err != nil {
		s.log.Error("scan failed", "error", err)
	}
}

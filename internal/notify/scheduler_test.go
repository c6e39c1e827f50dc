package notify

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"engdaily/internal/reminder"
)

type countingSource struct {
	calls atomic.Int64
}

func (c *countingSource) FindDue(ctx context.Context, timeOfDay, weekday string) ([]reminder.DueReminder, error) {
	c.calls.Add(1)
	return nil, nil
}

func newTestScheduler(src *countingSource, interval time.Duration) *Scheduler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	scanner := &Scanner{
		Reminders: src,
		Queue:     &mockEnqueuer{},
		Loc:       time.UTC,
		Log:       log,
	}
	return NewScheduler(scanner, interval, time.UTC, log)
}

func waitForCalls(t *testing.T, src *countingSource, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if src.calls.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d scans, saw %d", want, src.calls.Load())
}

func TestStartRunsImmediateScan(t *testing.T) {
	src := &countingSource{}
	s := newTestScheduler(src, time.Hour)
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	waitForCalls(t, src, 1)
}

func TestStartTwiceDoesNotDoubleSchedule(t *testing.T) {
	src := &countingSource{}
	s := newTestScheduler(src, time.Hour)
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	waitForCalls(t, src, 1)

	// A second timer would have fired a second immediate scan.
	time.Sleep(100 * time.Millisecond)
	if got := src.calls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 scan after double start, got %d", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	src := &countingSource{}
	s := newTestScheduler(src, time.Hour)

	// Stop before start is a no-op.
	s.Stop()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	waitForCalls(t, src, 1)

	s.Stop()
	s.Stop()

	before := src.calls.Load()
	time.Sleep(100 * time.Millisecond)
	if got := src.calls.Load(); got != before {
		t.Fatalf("scans continued after Stop: %d -> %d", before, got)
	}
}

func TestSchedulerRestarts(t *testing.T) {
	src := &countingSource{}
	s := newTestScheduler(src, time.Hour)

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	waitForCalls(t, src, 1)
	s.Stop()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()
	waitForCalls(t, src, 2)
}

func TestPeriodicTicks(t *testing.T) {
	src := &countingSource{}
	s := newTestScheduler(src, 50*time.Millisecond)
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	// Immediate scan plus at least one periodic tick.
	waitForCalls(t, src, 2)
}

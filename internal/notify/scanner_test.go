package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"engdaily/internal/jobs"
	"engdaily/internal/reminder"
)

type mockSource struct {
	due       []reminder.DueReminder
	err       error
	timeOfDay string
	weekday   string
}

func (m *mockSource) FindDue(ctx context.Context, timeOfDay, weekday string) ([]reminder.DueReminder, error) {
	m.timeOfDay = timeOfDay
	m.weekday = weekday
	return m.due, m.err
}

type mockEnqueuer struct {
	jobs []jobs.PushPayload
	opts []jobs.EnqueueOptions
	err  error
}

func (m *mockEnqueuer) EnqueuePush(ctx context.Context, userID uint64, p jobs.PushPayload, opts jobs.EnqueueOptions) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, p)
	m.opts = append(m.opts, opts)
	return nil
}

func newTestScanner(src *mockSource, q *mockEnqueuer) *Scanner {
	return &Scanner{
		Reminders: src,
		Queue:     q,
		Loc:       time.UTC,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// 2024-01-01 is a Monday.
var mondayNine = time.Date(2024, 1, 1, 9, 0, 30, 0, time.UTC)

func TestScanMatchesMinuteAndTurkishWeekday(t *testing.T) {
	src := &mockSource{}
	s := newTestScanner(src, &mockEnqueuer{})

	if err := s.Scan(context.Background(), mondayNine); err != nil {
		t.Fatal(err)
	}
	if src.timeOfDay != "09:00" {
		t.Errorf("timeOfDay = %q, want 09:00 (seconds truncated)", src.timeOfDay)
	}
	if src.weekday != "Pazartesi" {
		t.Errorf("weekday = %q, want Pazartesi", src.weekday)
	}
}

func TestScanEnqueuesOneJobPerDueReminder(t *testing.T) {
	src := &mockSource{due: []reminder.DueReminder{
		{ReminderID: 1, UserID: 10, PushToken: "ExponentPushToken[a]", Tense: "simple_past"},
		{ReminderID: 2, UserID: 11, PushToken: "ExponentPushToken[b]", Tense: "unknown_tense"},
	}}
	q := &mockEnqueuer{}
	s := newTestScanner(src, q)

	if err := s.Scan(context.Background(), mondayNine); err != nil {
		t.Fatal(err)
	}
	if len(q.jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(q.jobs))
	}

	first := q.jobs[0]
	if first.ReminderID != 1 || first.PushToken != "ExponentPushToken[a]" {
		t.Errorf("unexpected payload: %+v", first)
	}
	if first.Title != "İngilizce Pratik Zamanı!" {
		t.Errorf("title = %q", first.Title)
	}
	if !strings.Contains(first.Body, "Geçmiş Zaman (Simple Past)") {
		t.Errorf("body should carry the tense label, got %q", first.Body)
	}
	if first.Data["tense"] != "simple_past" {
		t.Errorf("data = %v", first.Data)
	}

	// Unknown tense falls back to the raw value in the body.
	if !strings.Contains(q.jobs[1].Body, "unknown_tense") {
		t.Errorf("fallback body = %q", q.jobs[1].Body)
	}

	for _, o := range q.opts {
		if o.MaxAttempts != 3 || o.InitialBackoff != time.Second {
			t.Errorf("enqueue options = %+v, want 3 attempts / 1s backoff", o)
		}
	}
}

func TestScanAbandonsTickOnStoreError(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	q := &mockEnqueuer{}
	s := newTestScanner(src, q)

	if err := s.Scan(context.Background(), mondayNine); err == nil {
		t.Fatal("expected an error")
	}
	if len(q.jobs) != 0 {
		t.Fatalf("no jobs must be enqueued on a failed scan")
	}
}

func TestScanStopsOnEnqueueError(t *testing.T) {
	src := &mockSource{due: []reminder.DueReminder{{ReminderID: 1, UserID: 10}}}
	q := &mockEnqueuer{err: errors.New("insert failed")}
	s := newTestScanner(src, q)

	if err := s.Scan(context.Background(), mondayNine); err == nil {
		t.Fatal("expected an error")
	}
}

package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Queue is the slice of the repo the worker drives. *Repo implements it;
// tests substitute a mock.
type Queue interface {
	Claim(ctx context.Context, workerID string) (*Job, error)
	MarkDone(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64, errMsg string) error
	RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error
}

// Transport delivers one push notification and confirms acceptance.
type Transport interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// TriggerMarker flips a reminder's triggered flag after a confirmed send.
type TriggerMarker interface {
	SetTriggered(ctx context.Context, reminderID uint64) error
}

// TokenValidator rejects destinations the transport can never deliver to.
type TokenValidator func(token string) bool

// Worker drains the queue one job at a time. Run several with distinct IDs
// to scale out; SKIP LOCKED claiming keeps each job with exactly one of
// them.
type Worker struct {
	ID        string
	Repo      Queue
	Push      Transport
	Reminders TriggerMarker
	Validate  TokenValidator
	Log       *slog.Logger

	// PollInterval defaults to 800ms when zero.
	PollInterval time.Duration
}

func (w *Worker) Run(ctx context.Context) {
	interval := w.PollInterval
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(ctx, w.ID)
			if err != nil {
				w.Log.Error("worker claim failed", "worker", w.ID, "error", err)
				continue
			}
			if job == nil {
				continue
			}
			w.handle(ctx, job)
		}
	}
}

func (w *Worker) handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypePushDispatch:
		w.handlePush(ctx, job)
	default:
		_ = w.Repo.MarkFailed(ctx, job.ID, "unknown job type")
	}
}

func (w *Worker) handlePush(ctx context.Context, job *Job) {
	var p PushPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		_ = w.Repo.MarkFailed(ctx, job.ID, "bad payload")
		return
	}

	// A malformed token never becomes deliverable: drop without retry.
	if w.Validate != nil && !w.Validate(p.PushToken) {
		w.Log.Warn("invalid push token, dropping job", "job", job.ID, "user", job.UserID)
		_ = w.Repo.MarkFailed(ctx, job.ID, "invalid push token")
		return
	}

	if err := w.Push.Send(ctx, p.PushToken, p.Title, p.Body, p.Data); err != nil {
		w.Log.Warn("push send failed", "job", job.ID, "user", job.UserID, "error", err)
		w.retry(ctx, job, err.Error())
		return
	}

	// The flag must only flip after confirmed acceptance. A failure here is
	// logged and the job is still acked; a crash in between redelivers on
	// the next matching slot, which is the accepted failure mode.
	if err := w.Reminders.SetTriggered(ctx, p.ReminderID); err != nil {
		w.Log.Error("set triggered failed after send", "job", job.ID, "reminder", p.ReminderID, "error", err)
	}

	_ = w.Repo.MarkDone(ctx, job.ID)
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		w.Log.Error("job exhausted retries", "job", job.ID, "attempts", attempts)
		_ = w.Repo.MarkFailed(ctx, job.ID, errMsg)
		return
	}

	// Delay doubles every retry: backoff, 2*backoff, 4*backoff, ...
	delay := time.Duration(job.BackoffMS) * time.Millisecond << (attempts - 1)
	next := time.Now().Add(delay)

	_ = w.Repo.RetryLater(ctx, job.ID, attempts, next, errMsg)
}

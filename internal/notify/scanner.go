package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"engdaily/internal/jobs"
	"engdaily/internal/quiz"
	"engdaily/internal/reminder"
)

const notificationTitle = "İngilizce Pratik Zamanı!"

// turkishDays is indexed by time.Weekday (Sunday = 0), matching the values
// stored in the reminder days column.
var turkishDays = [7]string{
	"Pazar",
	"Pazartesi",
	"Salı",
	"Çarşamba",
	"Perşembe",
	"Cuma",
	"Cumartesi",
}

type ReminderSource interface {
	FindDue(ctx context.Context, timeOfDay, weekday string) ([]reminder.DueReminder, error)
}

type Enqueuer interface {
	EnqueuePush(ctx context.Context, userID uint64, p jobs.PushPayload, opts jobs.EnqueueOptions) error
}

// Scanner computes which reminders are due at a given instant and turns
// each into one queued delivery job.
type Scanner struct {
	Reminders ReminderSource
	Queue     Enqueuer
	Loc       *time.Location
	Log       *slog.Logger
}

// Scan matches reminders against the exact minute and weekday of now in the
// operational timezone. Any error abandons the tick; the next tick retries
// from scratch.
func (s *Scanner) Scan(ctx context.Context, now time.Time) error {
	local := now.In(s.Loc)
	timeOfDay := local.Format("15:04")
	weekday := turkishDays[local.Weekday()]

	due, err := s.Reminders.FindDue(ctx, timeOfDay, weekday)
	if err != nil {
		return fmt.Errorf("find due reminders: %w", err)
	}

	for _, d := range due {
		body := fmt.Sprintf("%s için pratik yapma vakti geldi. Hemen başlayalım!", quiz.TenseLabel(d.Tense))
		err := s.Queue.EnqueuePush(ctx, d.UserID, jobs.PushPayload{
			ReminderID: d.ReminderID,
			PushToken:  d.PushToken,
			Title:      notificationTitle,
			Body:       body,
			Data:       map[string]string{"tense": d.Tense},
		}, jobs.DefaultEnqueueOptions())
		if err != nil {
			return fmt.Errorf("enqueue push for reminder %d: %w", d.ReminderID, err)
		}
		s.Log.Info("queued practice notification", "reminder", d.ReminderID, "user", d.UserID, "slot", timeOfDay)
	}

	return nil
}

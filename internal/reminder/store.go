package reminder

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("reminder not found")
var ErrLimitReached = errors.New("reminder limit reached")

// MaxPerUser caps how many reminders a single user may configure.
const MaxPerUser = 5

type Store struct {
	DB *gorm.DB
}

// DueReminder is one row the scanner turns into a delivery job.
type DueReminder struct {
	ReminderID uint64 `gorm:"column:reminder_id"`
	UserID     uint64 `gorm:"column:user_id"`
	PushToken  string `gorm:"column:push_token"`
	Tense      string `gorm:"column:tense"`
}

func (s *Store) ListByUser(ctx context.Context, userID uint64) ([]Reminder, error) {
	var out []Reminder
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("time asc").
		Find(&out).Error
	return out, err
}

// Create inserts a reminder unless the user is at the limit. The count and
// insert run in one transaction so concurrent creates cannot overshoot.
func (s *Store) Create(ctx context.Context, r *Reminder) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Reminder{}).Where("user_id = ?", r.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count >= MaxPerUser {
			return ErrLimitReached
		}
		return tx.Create(r).Error
	})
}

func (s *Store) Delete(ctx context.Context, id uint64) error {
	res := s.DB.WithContext(ctx).Delete(&Reminder{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindDue returns every reminder matching the exact minute and weekday that
// has not fired yet, for users with push delivery enabled and a registered
// token. Matching is equality on the minute, not a window: a slot the
// scheduler slept through is not retroactively delivered.
func (s *Store) FindDue(ctx context.Context, timeOfDay, weekday string) ([]DueReminder, error) {
	var out []DueReminder
	err := s.DB.WithContext(ctx).Raw(`
select r.id as reminder_id, r.user_id, u.notification_token as push_token, r.tense
from reminders r
join users u on u.id = r.user_id
where u.notification_enabled = true
  and u.notification_token <> ''
  and r.time = ?
  and ? = any(r.days)
  and r.triggered = false
`, timeOfDay, weekday).Scan(&out).Error
	return out, err
}

func (s *Store) SetTriggered(ctx context.Context, reminderID uint64) error {
	return s.DB.WithContext(ctx).
		Exec(`update reminders set triggered = true, updated_at = now() where id = ?`, reminderID).Error
}

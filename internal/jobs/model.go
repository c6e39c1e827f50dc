package jobs

import "time"

// Job statuses. A job is handed to exactly one worker at a time: claiming
// flips PENDING -> RUNNING, completion flips RUNNING -> DONE/FAILED, a
// scheduled retry flips it back to PENDING with a later run_at.
const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

const TypePushDispatch = "PUSH_DISPATCH"

type Job struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"index;not null"`

	Type    string `gorm:"type:text;not null"` // PUSH_DISPATCH
	Payload []byte `gorm:"type:jsonb;not null;default:'{}'::jsonb"`

	RunAt  time.Time `gorm:"index;not null"`
	Status string    `gorm:"index;not null;default:'PENDING'"`

	Attempts    int `gorm:"not null;default:0"`
	MaxAttempts int `gorm:"not null;default:3"`

	// First retry delay in milliseconds; each further retry doubles it.
	BackoffMS int64 `gorm:"not null;default:1000"`

	LockedBy *string    `gorm:"type:text"`
	LockedAt *time.Time `gorm:"type:timestamptz"`

	LastError *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// PushPayload is the body of a PUSH_DISPATCH job.
type PushPayload struct {
	ReminderID uint64            `json:"reminder_id"`
	PushToken  string            `json:"push_token"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
}

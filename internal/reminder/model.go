package reminder

import (
	"time"

	"github.com/lib/pq"
)

// Reminder is one user-configured notification slot: a wall-clock minute
// plus the weekdays it is active on.
type Reminder struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"index;not null" json:"user_id"`

	// HH:MM in the operational timezone.
	Time string `gorm:"type:varchar(5);not null" json:"time"`

	// Turkish weekday names (Pazartesi, Salı, ...).
	Days pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"days"`

	// Tense the practice notification is about; passed through as payload.
	Tense string `gorm:"type:text;not null" json:"tense"`

	// Set once a notification for the current slot was delivered.
	// Only the delivery worker writes it, and only after the transport
	// confirmed acceptance.
	Triggered bool `gorm:"not null;default:false" json:"triggered"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

package user

import "time"

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `gorm:"not null" json:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`

	// Expo push destination; empty means the device never registered one.
	NotificationToken   string `gorm:"type:text" json:"notification_token"`
	NotificationEnabled bool   `gorm:"not null;default:false" json:"notification_enabled"`

	DeviceType    string `gorm:"type:text" json:"device_type,omitempty"`
	DeviceVersion string `gorm:"type:text" json:"device_version,omitempty"`
	DeviceModel   string `gorm:"type:text" json:"device_model,omitempty"`
	DeviceName    string `gorm:"type:text" json:"device_name,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

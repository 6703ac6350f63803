package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer. Users are created lazily on the first
// booking attempt and never deleted.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name  string `gorm:"type:varchar(255)" json:"name"`
	Phone string `gorm:"type:varchar(50);index" json:"phone"`
	Email string `gorm:"type:varchar(255)" json:"email"`

	// ExternalSessionID is the identity key used to correlate a booking
	// back to an originating chat conversation. When a booking request
	// carries no session id, the phone number string is stored here
	// instead, so the key is always present and unique.
	ExternalSessionID *string `gorm:"type:varchar(100);uniqueIndex" json:"external_session_id,omitempty"`

	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
}

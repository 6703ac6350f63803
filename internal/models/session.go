package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// SessionState tracks how far a chat conversation has progressed.
// Transitions only move forward: IN_PROGRESS -> BOOKED.
type SessionState string

const (
	SessionStateInProgress SessionState = "IN_PROGRESS"
	SessionStateBooked     SessionState = "BOOKED"
)

// Session correlates a booking flow back to the chat conversation it
// originated from. It is updated by multiple independent handlers, so
// writes to it are always best-effort.
type Session struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	ExternalID     string          `gorm:"type:varchar(100);uniqueIndex" json:"external_id"`
	State          SessionState    `gorm:"type:varchar(20)" json:"state"`
	Data           json.RawMessage `gorm:"type:jsonb" json:"data,omitempty"`
	LastActivityAt time.Time       `json:"last_activity_at"`
}

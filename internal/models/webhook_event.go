package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// WebhookEvent stores every authenticated gateway callback for audit
// and replay inspection.
type WebhookEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Provider       string          `gorm:"type:varchar(50);not null" json:"provider"`
	EventType      string          `gorm:"type:varchar(100);index" json:"event_type"`
	Payload        json.RawMessage `gorm:"type:jsonb" json:"payload"`
	SignatureValid bool            `gorm:"default:false" json:"signature_valid"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
}

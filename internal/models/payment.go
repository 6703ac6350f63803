package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type PaymentProvider string

const (
	PaymentProviderPaystack PaymentProvider = "paystack"
	PaymentProviderManual   PaymentProvider = "manual"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment records one settlement attempt for a booking. Amounts are in
// major currency units; conversion to the gateway's minor units happens
// at the gateway boundary only.
type Payment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Reference string `gorm:"type:varchar(64);uniqueIndex" json:"reference"`
	OrderID   string `gorm:"type:varchar(50);index" json:"order_id"` // logical link to Booking.OrderID

	Amount   float64       `gorm:"type:decimal(15,2)" json:"amount"`
	Currency string        `gorm:"type:varchar(10)" json:"currency"`
	Status   PaymentStatus `gorm:"type:varchar(20)" json:"status"`

	Provider          PaymentProvider `gorm:"type:varchar(50)" json:"provider"`
	ProviderReference string          `gorm:"type:varchar(100)" json:"provider_reference"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	Metadata          json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// BookingStatus is the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingPaymentStatus is the settlement status tracked on the booking itself
type BookingPaymentStatus string

const (
	BookingPaymentPending BookingPaymentStatus = "pending"
	BookingPaymentPaid    BookingPaymentStatus = "paid"
)

// Booking represents a confirmed rental reservation. The current
// product only models "pay in full up front": DepositAmount equals
// TotalAmount and BalanceAmount is zero at creation.
type Booking struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OrderID string `gorm:"type:varchar(50);uniqueIndex" json:"order_id"`
	UUID    string `gorm:"type:varchar(36);uniqueIndex" json:"uuid"` // public receipt token

	UserID uint `gorm:"index" json:"user_id"`
	CarID  uint `gorm:"index" json:"car_id"`

	PickupDate     time.Time `json:"pickup_date"`
	ReturnDate     time.Time `json:"return_date"`
	PickupLocation string    `gorm:"type:varchar(255)" json:"pickup_location"`

	Days          int     `json:"days"`
	DailyRate     float64 `gorm:"type:decimal(15,2)" json:"daily_rate"`
	TotalAmount   float64 `gorm:"type:decimal(15,2)" json:"total_amount"`
	DepositAmount float64 `gorm:"type:decimal(15,2)" json:"deposit_amount"`
	BalanceAmount float64 `gorm:"type:decimal(15,2)" json:"balance_amount"`

	BookingStatus BookingStatus        `gorm:"type:varchar(20)" json:"booking_status"`
	PaymentStatus BookingPaymentStatus `gorm:"type:varchar(20)" json:"payment_status"`

	// PaymentReference links to the Payment row by its reference string;
	// the relation is logical only, not enforced by the database.
	PaymentReference string `gorm:"type:varchar(64);index" json:"payment_reference"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Car  Car  `gorm:"foreignKey:CarID" json:"car,omitempty"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// CarStatus is the lifecycle status of a rental unit
type CarStatus string

const (
	CarStatusActive   CarStatus = "active"
	CarStatusInactive CarStatus = "inactive"
)

// Car represents a rental unit. Car rows are managed by an external
// fleet tool; this service only reads them.
type Car struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Code         string    `gorm:"type:varchar(50);uniqueIndex" json:"code"` // catalog id, e.g. "CAR-001"
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Category     string    `gorm:"type:varchar(50)" json:"category"`
	DailyRate    float64   `gorm:"type:decimal(15,2)" json:"daily_rate"`
	Seats        int       `json:"seats"`
	Transmission string    `gorm:"type:varchar(50)" json:"transmission"`
	FuelType     string    `gorm:"type:varchar(50)" json:"fuel_type"`
	ImageRef     string    `gorm:"type:text" json:"image_ref"` // absolute URL or storage-relative path
	Status       CarStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
}

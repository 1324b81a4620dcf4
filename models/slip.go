package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Slip is a bookable dock berth. Slips are soft-deactivated, never deleted,
// while bookings still reference them.
type Slip struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID    uint            `gorm:"index;column:owner_id" json:"owner_id"`
	SlipNumber string          `gorm:"column:slip_number;uniqueIndex;type:varchar(50)" json:"slip_number"`
	DailyRate  decimal.Decimal `gorm:"column:daily_rate;type:decimal(10,2)" json:"daily_rate"`
	Active     bool            `gorm:"column:active;default:true" json:"active"`

	MaxLengthFt int    `gorm:"column:max_length_ft" json:"max_length_ft,omitempty"`
	MaxBeamFt   int    `gorm:"column:max_beam_ft" json:"max_beam_ft,omitempty"`
	ShorePower  bool   `gorm:"column:shore_power;default:false" json:"shore_power"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	Owner Owner `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
}

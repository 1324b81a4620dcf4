package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon carries an already-resolved discount value: either a fixed amount
// off or a percentage of the subtotal. Coupon lifecycle is owned by the
// pricing-rules collaborator; the booking engine only reads these rows.
type Coupon struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Code       string           `gorm:"column:code;size:64;uniqueIndex" json:"code"`
	AmountOff  *decimal.Decimal `gorm:"column:amount_off;type:decimal(10,2)" json:"amount_off,omitempty"`
	PercentOff *decimal.Decimal `gorm:"column:percent_off;type:decimal(5,2)" json:"percent_off,omitempty"`
	Active     bool             `gorm:"column:active;default:true" json:"active"`
	ExpiresAt  *time.Time       `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

// Usable reports whether the coupon can still be applied at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return true
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CancellationStatusPending  = "Pending"
	CancellationStatusApproved = "Approved"
	CancellationStatusDenied   = "Denied"
)

// CancellationRequest is the requester's half of the two-party cancellation
// workflow. Records are never deleted; at most one Pending request exists
// per booking at any time.
type CancellationRequest struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BookingID  uint   `gorm:"index;column:booking_id" json:"booking_id"`
	CustomerID uint   `gorm:"index;column:customer_id" json:"customer_id"`
	Reason     string `gorm:"column:reason;type:text" json:"reason"`
	Status     string `gorm:"column:status;size:32;index" json:"status"`

	OwnerNotes    string           `gorm:"column:owner_notes;type:text" json:"owner_notes,omitempty"`
	RefundPercent *int             `gorm:"column:refund_percent" json:"refund_percent,omitempty"`
	RefundAmount  *decimal.Decimal `gorm:"column:refund_amount;type:decimal(10,2)" json:"refund_amount,omitempty"`

	RequestedAt time.Time  `gorm:"column:requested_at" json:"requested_at"`
	RespondedAt *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`

	Booking Booking `gorm:"foreignKey:BookingID;references:ID" json:"booking,omitempty"`
}

// IsPending reports whether the request is still awaiting disposition.
func (r *CancellationRequest) IsPending() bool {
	return r.Status == CancellationStatusPending
}

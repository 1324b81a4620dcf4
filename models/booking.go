package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "Pending"
	BookingStatusConfirmed = "Confirmed"
	BookingStatusCompleted = "Completed"
	BookingStatusCancelled = "Cancelled"
)

// Booking is one allocation of a slip for a half-open [CheckIn, CheckOut)
// date range. Money fields are computed once at creation and never
// recomputed afterwards.
type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`
	SlipID        uint   `gorm:"index;column:slip_id" json:"slip_id"`
	CustomerID    uint   `gorm:"index;column:customer_id" json:"customer_id"`
	Status        string `gorm:"column:status;size:32;index" json:"status"`

	CheckIn  time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`
	Nights   int       `gorm:"column:nights" json:"nights"`

	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2)" json:"subtotal"`
	ServiceFee     decimal.Decimal `gorm:"column:service_fee;type:decimal(10,2)" json:"service_fee"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(10,2)" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"column:total;type:decimal(10,2)" json:"total"`

	CouponCode      string           `gorm:"column:coupon_code;size:64" json:"coupon_code,omitempty"`
	SpecialRequest  string           `gorm:"column:special_request;type:text" json:"special_request,omitempty"`
	VesselInfo      datatypes.JSON   `gorm:"column:vessel_info" json:"vessel_info,omitempty"`
	ChargeReference string           `gorm:"column:charge_reference;size:128" json:"charge_reference,omitempty"`
	RefundAmount    *decimal.Decimal `gorm:"column:refund_amount;type:decimal(10,2)" json:"refund_amount,omitempty"`
	CancelledAt     *time.Time       `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`

	Slip     Slip     `gorm:"foreignKey:SlipID;references:ID" json:"slip,omitempty"`
	Customer Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// CanConfirm reports whether the booking may move to Confirmed.
func (b *Booking) CanConfirm() bool {
	return b.Status == BookingStatusPending
}

// CanAbandon reports whether the booking may be dropped as a failed
// creation. Only pendings are abandoned; anything confirmed goes through
// the cancellation workflow instead.
func (b *Booking) CanAbandon() bool {
	return b.Status == BookingStatusPending
}

// CanCancel reports whether the booking may move to Cancelled.
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CanComplete reports whether the stay has naturally ended.
func (b *Booking) CanComplete(now time.Time) bool {
	return b.Status == BookingStatusConfirmed && !b.CheckOut.After(now)
}

// EligibleForCancellationRequest enforces the requester-side rule: the
// booking belongs to the requester, is confirmed, and check-in is strictly
// in the future.
func (b *Booking) EligibleForCancellationRequest(customerID uint, now time.Time) bool {
	return b.CustomerID == customerID &&
		b.Status == BookingStatusConfirmed &&
		b.CheckIn.After(now)
}

// LeadDays is the number of whole days between now and check-in.
func (b *Booking) LeadDays(now time.Time) int {
	return int(b.CheckIn.Sub(now).Hours() / 24)
}

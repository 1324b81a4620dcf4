package status

import "errors"

// Business errors returned by the booking engine. Everything here is
// recoverable by the caller; storage failures are wrapped with %w and
// surfaced separately.
var (
	ErrSlipUnavailable = errors.New("slip: requested dates unavailable")
	ErrInvalidRange    = errors.New("booking: invalid date range")

	ErrInvalidBookingState = errors.New("booking: transition not allowed from current status")
	ErrInvalidRequestState = errors.New("cancellation: request already disposed")
	ErrNotEligible         = errors.New("cancellation: booking not eligible")
	ErrDuplicateRequest    = errors.New("cancellation: pending request already exists")
	ErrForbidden           = errors.New("auth: not the owner of this slip")

	ErrSlipNotFound     = errors.New("slip: not found")
	ErrCustomerNotFound = errors.New("customer: not found")
	ErrBookingNotFound  = errors.New("booking: not found")
	ErrRequestNotFound  = errors.New("cancellation: request not found")
	ErrCouponNotFound   = errors.New("coupon: not found")

	ErrSessionNotFound = errors.New("verification: no active session")
	ErrInvalidCode     = errors.New("verification: code does not match")
	ErrCodeExpired     = errors.New("verification: code expired")
	ErrCodeAlreadyUsed = errors.New("verification: code already redeemed")

	ErrPaymentFailed = errors.New("payment: charge authorization failed")
)

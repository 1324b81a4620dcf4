package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var bookingNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		status     string
		canConfirm bool
		canAbandon bool
		canCancel  bool
	}{
		{BookingStatusPending, true, true, true},
		{BookingStatusConfirmed, false, false, true},
		{BookingStatusCompleted, false, false, false},
		{BookingStatusCancelled, false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			b := &Booking{Status: tc.status}
			assert.Equal(t, tc.canConfirm, b.CanConfirm())
			assert.Equal(t, tc.canAbandon, b.CanAbandon())
			assert.Equal(t, tc.canCancel, b.CanCancel())
		})
	}
}

func TestBookingCanComplete(t *testing.T) {
	confirmed := &Booking{Status: BookingStatusConfirmed, CheckOut: bookingNow}

	assert.True(t, confirmed.CanComplete(bookingNow), "checkout reached")
	assert.True(t, confirmed.CanComplete(bookingNow.Add(time.Hour)), "checkout passed")
	assert.False(t, confirmed.CanComplete(bookingNow.Add(-time.Hour)), "still in stay")

	pending := &Booking{Status: BookingStatusPending, CheckOut: bookingNow.Add(-time.Hour)}
	assert.False(t, pending.CanComplete(bookingNow), "only confirmed bookings complete")
}

func TestBookingEligibleForCancellationRequest(t *testing.T) {
	b := &Booking{
		CustomerID: 7,
		Status:     BookingStatusConfirmed,
		CheckIn:    bookingNow.Add(48 * time.Hour),
	}

	assert.True(t, b.EligibleForCancellationRequest(7, bookingNow))
	assert.False(t, b.EligibleForCancellationRequest(8, bookingNow), "someone else's booking")

	b.Status = BookingStatusPending
	assert.False(t, b.EligibleForCancellationRequest(7, bookingNow), "pending is abandoned, not cancelled")
	b.Status = BookingStatusConfirmed

	b.CheckIn = bookingNow
	assert.False(t, b.EligibleForCancellationRequest(7, bookingNow), "check-in must be strictly in the future")

	b.CheckIn = bookingNow.Add(-24 * time.Hour)
	assert.False(t, b.EligibleForCancellationRequest(7, bookingNow), "stay already started")
}

func TestBookingLeadDays(t *testing.T) {
	b := &Booking{CheckIn: bookingNow.Add(14 * 24 * time.Hour)}
	assert.Equal(t, 14, b.LeadDays(bookingNow))

	// Partial days round down: 13.5 days out is still the 13-day tier.
	assert.Equal(t, 13, b.LeadDays(bookingNow.Add(12*time.Hour)))

	b.CheckIn = bookingNow.Add(-time.Hour)
	assert.Equal(t, 0, b.LeadDays(bookingNow))
}

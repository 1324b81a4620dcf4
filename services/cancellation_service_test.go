package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marina-backend/config"
	"marina-backend/models"
	"marina-backend/status"
)

type cancellationFixture struct {
	*bookingFixture
	csvc    *CancellationService
	booking *models.Booking
}

// newCancellationFixture seeds a confirmed booking 20 days ahead of the
// fixed clock, so the top refund tier applies.
func newCancellationFixture(t *testing.T) *cancellationFixture {
	t.Helper()
	bf := newBookingFixture(t, noCoupons())
	ctx := context.Background()

	booking, err := bf.svc.Create(ctx, bf.input(day(20), day(23)))
	require.NoError(t, err)
	booking, err = bf.svc.Confirm(ctx, booking.ID, "charge-1")
	require.NoError(t, err)

	tiers, err := config.ParseRefundSchedule("14:100,7:50,0:0")
	require.NoError(t, err)

	csvc := NewCancellationService(bf.db, bf.svc, tiers)
	csvc.Now = func() time.Time { return day(0) }
	bf.svc.Now = csvc.Now

	return &cancellationFixture{bookingFixture: bf, csvc: csvc, booking: booking}
}

func TestCancellationRequest_SecondRequestReturnsExisting(t *testing.T) {
	f := newCancellationFixture(t)
	ctx := context.Background()

	first, err := f.csvc.Request(ctx, f.booking.ID, f.customer.ID, "plans changed")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	again, err := f.csvc.Request(ctx, f.booking.ID, f.customer.ID, "asking twice")
	assert.ErrorIs(t, err, status.ErrDuplicateRequest)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID)

	// Exactly one pending request persisted for the booking.
	var pending int64
	require.NoError(t, f.db.Model(&models.CancellationRequest{}).
		Where("booking_id = ? AND status = ?", f.booking.ID, models.CancellationStatusPending).
		Count(&pending).Error)
	assert.EqualValues(t, 1, pending)
}

func TestCancellationRequest_Eligibility(t *testing.T) {
	f := newCancellationFixture(t)
	ctx := context.Background()

	// Someone else's booking.
	_, err := f.csvc.Request(ctx, f.booking.ID, f.customer.ID+100, "not mine")
	assert.ErrorIs(t, err, status.ErrNotEligible)

	// Check-in no longer strictly in the future.
	f.csvc.Now = func() time.Time { return day(20) }
	_, err = f.csvc.Request(ctx, f.booking.ID, f.customer.ID, "too late")
	assert.ErrorIs(t, err, status.ErrNotEligible)
	f.csvc.Now = func() time.Time { return day(0) }

	// Pending bookings are abandoned, not cancelled through the workflow.
	pendingBooking, err := f.svc.Create(ctx, f.input(day(30), day(32)))
	require.NoError(t, err)
	_, err = f.csvc.Request(ctx, pendingBooking.ID, f.customer.ID, "still pending")
	assert.ErrorIs(t, err, status.ErrNotEligible)

	_, err = f.csvc.Request(ctx, f.booking.ID+1000, f.customer.ID, "no such booking")
	assert.ErrorIs(t, err, status.ErrBookingNotFound)
}

func TestCancellationDispose_ApproveRefundsAndCancels(t *testing.T) {
	f := newCancellationFixture(t)
	ctx := context.Background()

	request, err := f.csvc.Request(ctx, f.booking.ID, f.customer.ID, "plans changed")
	require.NoError(t, err)

	disposed, err := f.csvc.Dispose(ctx, request.ID, f.owner.ID, DecisionApprove, "ok")
	require.NoError(t, err)
	assert.Equal(t, models.CancellationStatusApproved, disposed.Status)
	require.NotNil(t, disposed.RefundPercent)
	assert.Equal(t, 100, *disposed.RefundPercent)
	require.NotNil(t, disposed.RefundAmount)
	assert.True(t, disposed.RefundAmount.Equal(f.booking.Total), "refund %s want %s", disposed.RefundAmount, f.booking.Total)

	var booking models.Booking
	require.NoError(t, f.db.First(&booking, f.booking.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.NotNil(t, booking.CancelledAt)

	// The cancelled range becomes bookable again.
	assert.False(t, f.svc.Index.Occupied(f.slip.ID, day(20), day(23)))
}

func TestCancellationDispose_DenyKeepsBookingAndUnblocksNewRequest(t *testing.T) {
	f := newCancellationFixture(t)
	ctx := context.Background()

	request, err := f.csvc.Request(ctx, f.booking.ID, f.customer.ID, "plans changed")
	require.NoError(t, err)

	disposed, err := f.csvc.Dispose(ctx, request.ID, f.owner.ID, DecisionDeny, "peak season")
	require.NoError(t, err)
	assert.Equal(t, models.CancellationStatusDenied, disposed.Status)
	assert.Equal(t, "peak season", disposed.OwnerNotes)
	assert.Nil(t, disposed.RefundAmount)

	var booking models.Booking
	require.NoError(t, f.db.First(&booking, f.booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.True(t, f.svc.Index.Occupied(f.slip.ID, day(20), day(23)))

	// A denied request does not block filing a new one.
	_, err = f.csvc.Request(ctx, f.booking.ID, f.customer.ID, "trying again")
	assert.NoError(t, err)
}

func TestCancellationDispose_OwnershipDecidedBeforeRequestState(t *testing.T) {
	f := newCancellationFixture(t)
	ctx := context.Background()

	request, err := f.csvc.Request(ctx, f.booking.ID, f.customer.ID, "plans changed")
	require.NoError(t, err)

	stranger := models.Owner{FullName: "Other Marina", Email: "rival@test.local", Password: "x"}
	require.NoError(t, f.db.Create(&stranger).Error)

	// Non-owner on a pending request.
	_, err = f.csvc.Dispose(ctx, request.ID, stranger.ID, DecisionApprove, "")
	assert.ErrorIs(t, err, status.ErrForbidden)

	_, err = f.csvc.Dispose(ctx, request.ID, f.owner.ID, DecisionApprove, "ok")
	require.NoError(t, err)

	// Non-owner probing an already-disposed request still reads forbidden,
	// not the request's state.
	_, err = f.csvc.Dispose(ctx, request.ID, stranger.ID, DecisionApprove, "")
	assert.ErrorIs(t, err, status.ErrForbidden)

	// The rightful owner disposing twice finds the state spent.
	_, err = f.csvc.Dispose(ctx, request.ID, f.owner.ID, DecisionDeny, "")
	assert.ErrorIs(t, err, status.ErrInvalidRequestState)

	_, err = f.csvc.Dispose(ctx, request.ID+1000, f.owner.ID, DecisionApprove, "")
	assert.ErrorIs(t, err, status.ErrRequestNotFound)

	_, err = f.csvc.Dispose(ctx, request.ID, f.owner.ID, "shrug", "")
	assert.Error(t, err)
}

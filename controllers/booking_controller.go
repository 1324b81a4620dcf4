package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"marina-backend/middleware"
	"marina-backend/models"
	"marina-backend/monitoring"
	"marina-backend/services"
	"marina-backend/status"
	"marina-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	SlipID         uint           `json:"slip_id" binding:"required"`
	CheckIn        string         `json:"check_in" binding:"required"`
	CheckOut       string         `json:"check_out" binding:"required"`
	CouponCode     string         `json:"coupon_code,omitempty"`
	SpecialRequest string         `json:"special_request,omitempty"`
	VesselInfo     datatypes.JSON `json:"vessel_info,omitempty"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc    *services.BookingService
	Charges       services.ChargeAuthority
	Notifier      services.Notifier
	Currency      string
	ChargeTimeout time.Duration
}

func NewBookingController(svc *services.BookingService, charges services.ChargeAuthority, notifier services.Notifier, currency string, chargeTimeout time.Duration) *BookingController {
	return &BookingController{
		BookingSvc:    svc,
		Charges:       charges,
		Notifier:      notifier,
		Currency:      currency,
		ChargeTimeout: chargeTimeout,
	}
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return 0, false
	}
	return uint(id), true
}

// CreateBooking admits a pending booking for the authenticated customer.
// The charge happens on confirm, not here.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	customerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid check_in format, want YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid check_out format, want YYYY-MM-DD")
		return
	}

	booking, err := bc.BookingSvc.Create(c.Request.Context(), services.CreateBookingInput{
		SlipID:         req.SlipID,
		CustomerID:     customerID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		CouponCode:     req.CouponCode,
		SpecialRequest: req.SpecialRequest,
		VesselInfo:     req.VesselInfo,
	})
	if err != nil {
		monitoring.RecordBookingCreated("rejected")
		respondError(c, err)
		return
	}

	monitoring.RecordBookingCreated("pending")
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// ConfirmBooking drives the external charge and, on success, the
// pending -> confirmed transition. A failed or timed-out charge abandons
// the pending booking so its interval is released.
func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	customerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	booking, err := bc.BookingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if booking.CustomerID != customerID {
		respondError(c, status.ErrForbidden)
		return
	}
	if !booking.CanConfirm() {
		respondError(c, status.ErrInvalidBookingState)
		return
	}

	chargeCtx, cancel := context.WithTimeout(c.Request.Context(), bc.ChargeTimeout)
	defer cancel()

	chargeRef, err := bc.Charges.Authorize(chargeCtx, services.ChargeRequest{
		Amount:      booking.Total,
		Currency:    bc.Currency,
		Reference:   booking.ReferenceCode,
		Description: "slip booking " + booking.ReferenceCode,
	})
	if err != nil {
		if abandonErr := bc.BookingSvc.Abandon(c.Request.Context(), booking.ID); abandonErr != nil {
			respondError(c, abandonErr)
			return
		}
		monitoring.RecordBookingCancelled("charge_failed")
		respondError(c, status.ErrPaymentFailed)
		return
	}

	confirmed, err := bc.BookingSvc.Confirm(c.Request.Context(), booking.ID, chargeRef)
	if err != nil {
		// Charge went through but the transition lost a race; give the
		// money back before reporting.
		_ = bc.Charges.Void(context.Background(), chargeRef)
		respondError(c, err)
		return
	}

	confirmed.Customer = booking.Customer
	confirmed.Slip = booking.Slip
	go bc.Notifier.BookingConfirmed(confirmed)

	monitoring.RecordBookingCreated("confirmed")
	utils.JSONSuccess(c, http.StatusOK, confirmed)
}

// AbandonBooking drops a pending booking whose charge the caller gave up
// on. Not a cancellation: no record, no refund. Only the booking's own
// customer may abandon it; anyone else releasing the interval would let
// them re-reserve the slip out from under the holder.
func (bc *BookingController) AbandonBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	customerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	booking, err := bc.BookingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if booking.CustomerID != customerID {
		respondError(c, status.ErrForbidden)
		return
	}

	if err := bc.BookingSvc.Abandon(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	monitoring.RecordBookingCancelled("abandoned")
	utils.JSONSuccess(c, http.StatusOK, gin.H{"abandoned": true})
}

// CompleteBooking marks a confirmed stay finished after check-out. Only
// the owner of the booked slip may complete it.
func (bc *BookingController) CompleteBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	ownerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	booking, err := bc.BookingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if booking.Slip.OwnerID != ownerID {
		respondError(c, status.ErrForbidden)
		return
	}

	completed, err := bc.BookingSvc.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, completed)
}

// GetBooking returns one booking by numeric id or reference code.
func (bc *BookingController) GetBooking(c *gin.Context) {
	ref := c.Param("id")
	var booking *models.Booking
	var err error

	if id, parseErr := strconv.ParseUint(ref, 10, 64); parseErr == nil {
		booking, err = bc.BookingSvc.GetByID(c.Request.Context(), uint(id))
	} else {
		booking, err = bc.BookingSvc.GetByReference(c.Request.Context(), ref)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, booking)
}

// GetBookings lists bookings scoped to the caller: customers see their own
// bookings, owners see bookings on their slips.
func (bc *BookingController) GetBookings(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	role, _ := middleware.Role(c)
	var list []models.Booking
	var err error
	switch role {
	case middleware.RoleCustomer:
		list, err = bc.BookingSvc.ListForCustomer(c.Request.Context(), accountID)
	case middleware.RoleOwner:
		list, err = bc.BookingSvc.ListForOwner(c.Request.Context(), accountID)
	default:
		respondError(c, status.ErrForbidden)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, list)
}

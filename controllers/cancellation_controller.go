package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"marina-backend/middleware"
	"marina-backend/monitoring"
	"marina-backend/services"
	"marina-backend/status"
	"marina-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RequestCancellationPayload struct {
	Reason string `json:"reason" binding:"required"`
}

type DisposeCancellationPayload struct {
	Decision string `json:"decision" binding:"required"` // approve | deny
	Notes    string `json:"notes,omitempty"`
}

type CancellationController struct {
	CancellationSvc *services.CancellationService
	Notifier        services.Notifier
}

func NewCancellationController(svc *services.CancellationService, notifier services.Notifier) *CancellationController {
	return &CancellationController{CancellationSvc: svc, Notifier: notifier}
}

// RequestCancellation files a cancellation request for the authenticated
// customer's booking. A duplicate pending request returns the existing one
// with 200 rather than creating another.
func (cc *CancellationController) RequestCancellation(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	var payload RequestCancellationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	customerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	request, err := cc.CancellationSvc.Request(c.Request.Context(), uint(bookingID), customerID, payload.Reason)
	if err != nil {
		if errors.Is(err, status.ErrDuplicateRequest) {
			utils.JSONSuccess(c, http.StatusOK, request)
			return
		}
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, request)
}

// DisposeCancellation records the owner's approve/deny decision.
func (cc *CancellationController) DisposeCancellation(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request id")
		return
	}

	var payload DisposeCancellationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	ownerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	request, err := cc.CancellationSvc.Dispose(c.Request.Context(), uint(requestID), ownerID, payload.Decision, payload.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	monitoring.RecordDisposition(payload.Decision)
	if payload.Decision == services.DecisionApprove {
		monitoring.RecordBookingCancelled("approved")
		refund := decimal.Zero
		if request.RefundAmount != nil {
			refund = *request.RefundAmount
		}
		booking := request.Booking
		go cc.Notifier.BookingCancelled(&booking, refund)
	}

	utils.JSONSuccess(c, http.StatusOK, request)
}

// ListCancellations lists requests for the authenticated owner's slips.
func (cc *CancellationController) ListCancellations(c *gin.Context) {
	ownerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	list, err := cc.CancellationSvc.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, list)
}

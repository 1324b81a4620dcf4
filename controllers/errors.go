package controllers

import (
	"errors"
	"log"
	"net/http"

	"marina-backend/status"
	"marina-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps business errors to 4xx responses uniformly across
// controllers. Anything unrecognized is a storage or collaborator failure
// and surfaces as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, status.ErrSlipUnavailable):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, status.ErrInvalidRange):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, status.ErrInvalidBookingState),
		errors.Is(err, status.ErrInvalidRequestState):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, status.ErrNotEligible),
		errors.Is(err, status.ErrDuplicateRequest):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, status.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, status.ErrSlipNotFound),
		errors.Is(err, status.ErrCustomerNotFound),
		errors.Is(err, status.ErrBookingNotFound),
		errors.Is(err, status.ErrRequestNotFound),
		errors.Is(err, status.ErrCouponNotFound),
		errors.Is(err, status.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, status.ErrInvalidCode),
		errors.Is(err, status.ErrCodeExpired),
		errors.Is(err, status.ErrCodeAlreadyUsed):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, status.ErrPaymentFailed):
		utils.JSONError(c, http.StatusPaymentRequired, err.Error())
	default:
		log.Printf("internal error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

package controllers

import (
	"net/http"
	"strconv"

	"marina-backend/middleware"
	"marina-backend/models"
	"marina-backend/status"
	"marina-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateSlipPayload struct {
	SlipNumber  string          `json:"slip_number" binding:"required"`
	DailyRate   decimal.Decimal `json:"daily_rate" binding:"required"`
	MaxLengthFt int             `json:"max_length_ft,omitempty"`
	MaxBeamFt   int             `json:"max_beam_ft,omitempty"`
	ShorePower  bool            `json:"shore_power,omitempty"`
	Description string          `json:"description,omitempty"`
}

type SlipController struct {
	DB *gorm.DB
}

func NewSlipController(db *gorm.DB) *SlipController {
	return &SlipController{DB: db}
}

// CreateSlip registers a new berth for the authenticated owner.
func (sc *SlipController) CreateSlip(c *gin.Context) {
	var payload CreateSlipPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	ownerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	slip := models.Slip{
		OwnerID:     ownerID,
		SlipNumber:  payload.SlipNumber,
		DailyRate:   payload.DailyRate,
		Active:      true,
		MaxLengthFt: payload.MaxLengthFt,
		MaxBeamFt:   payload.MaxBeamFt,
		ShorePower:  payload.ShorePower,
		Description: payload.Description,
	}
	if err := sc.DB.Create(&slip).Error; err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, slip)
}

// GetSlips lists active slips.
func (sc *SlipController) GetSlips(c *gin.Context) {
	var slips []models.Slip
	q := sc.DB.Order("slip_number")
	if c.Query("include_inactive") != "true" {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&slips).Error; err != nil {
		respondError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, slips)
}

// GetSlip returns one slip by id.
func (sc *SlipController) GetSlip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid slip id")
		return
	}

	var slip models.Slip
	if err := sc.DB.First(&slip, uint(id)).Error; err != nil {
		respondError(c, status.ErrSlipNotFound)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, slip)
}

// DeactivateSlip soft-deactivates a berth. Existing bookings keep their
// reference; no new bookings are admitted.
func (sc *SlipController) DeactivateSlip(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid slip id")
		return
	}

	ownerID, ok := middleware.AccountID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing account")
		return
	}

	var slip models.Slip
	if err := sc.DB.First(&slip, uint(id)).Error; err != nil {
		respondError(c, status.ErrSlipNotFound)
		return
	}
	if slip.OwnerID != ownerID {
		respondError(c, status.ErrForbidden)
		return
	}

	if err := sc.DB.Model(&slip).Update("active", false).Error; err != nil {
		respondError(c, err)
		return
	}

	slip.Active = false
	utils.JSONSuccess(c, http.StatusOK, slip)
}

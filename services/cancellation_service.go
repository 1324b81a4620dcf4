package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marina-backend/config"
	"marina-backend/models"
	"marina-backend/status"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CancellationService mediates the two-step cancellation workflow: the
// requester files a request, the slip owner approves or denies it. Approval
// computes the refund from the lead-time tier schedule and drives the
// booking state machine to Cancelled.
type CancellationService struct {
	DB       *gorm.DB
	Bookings *BookingService
	Tiers    config.RefundSchedule
	Now      func() time.Time
}

func NewCancellationService(db *gorm.DB, bookings *BookingService, tiers config.RefundSchedule) *CancellationService {
	return &CancellationService{
		DB:       db,
		Bookings: bookings,
		Tiers:    tiers,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

const (
	DecisionApprove = "approve"
	DecisionDeny    = "deny"
)

// refundAmount applies a whole-percentage refund to the booking total,
// rounded to cents once.
func refundAmount(total decimal.Decimal, percent int) decimal.Decimal {
	return total.
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

// Request files a cancellation request for the customer's own confirmed
// booking with check-in strictly in the future. When a pending request
// already exists it is returned together with status.ErrDuplicateRequest
// instead of creating a duplicate. The duplicate check and the create run
// in one transaction under a row lock on the booking, so two concurrent
// requests for the same booking can never both persist as pending.
func (s *CancellationService) Request(ctx context.Context, bookingID, customerID uint, reason string) (*models.CancellationRequest, error) {
	var request models.CancellationRequest
	var existing *models.CancellationRequest

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return status.ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking %d: %w", bookingID, err)
		}

		now := s.Now()
		if !booking.EligibleForCancellationRequest(customerID, now) {
			return status.ErrNotEligible
		}

		var prior models.CancellationRequest
		err := tx.
			Where("booking_id = ? AND status = ?", bookingID, models.CancellationStatusPending).
			First(&prior).Error
		if err == nil {
			existing = &prior
			return status.ErrDuplicateRequest
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing requests: %w", err)
		}

		request = models.CancellationRequest{
			BookingID:   bookingID,
			CustomerID:  customerID,
			Reason:      reason,
			Status:      models.CancellationStatusPending,
			RequestedAt: now,
		}
		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to create cancellation request: %w", err)
		}
		return nil
	})
	if errors.Is(err, status.ErrDuplicateRequest) {
		return existing, status.ErrDuplicateRequest
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Dispose records the owner's decision. The request row is locked for the
// duration so two concurrent dispositions cannot both succeed: the second
// finds the request no longer pending and gets
// status.ErrInvalidRequestState.
func (s *CancellationService) Dispose(ctx context.Context, requestID, ownerID uint, decision, notes string) (*models.CancellationRequest, error) {
	if decision != DecisionApprove && decision != DecisionDeny {
		return nil, fmt.Errorf("unknown decision %q", decision)
	}

	var request models.CancellationRequest
	var booking models.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return status.ErrRequestNotFound
			}
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, request.BookingID).Error; err != nil {
			return fmt.Errorf("failed to load booking %d: %w", request.BookingID, err)
		}

		var slip models.Slip
		if err := tx.First(&slip, booking.SlipID).Error; err != nil {
			return fmt.Errorf("failed to load slip %d: %w", booking.SlipID, err)
		}
		// Ownership is settled before request state so a non-owner probing
		// a disposed request still reads forbidden.
		if slip.OwnerID != ownerID {
			return status.ErrForbidden
		}
		if !request.IsPending() {
			return status.ErrInvalidRequestState
		}

		now := s.Now()

		if decision == DecisionDeny {
			request.Status = models.CancellationStatusDenied
			request.OwnerNotes = notes
			request.RespondedAt = &now
			return tx.Model(&request).Updates(map[string]interface{}{
				"status":       models.CancellationStatusDenied,
				"owner_notes":  notes,
				"responded_at": now,
			}).Error
		}

		percent := s.Tiers.PercentFor(booking.LeadDays(now))
		refund := refundAmount(booking.Total, percent)

		if err := s.Bookings.CancelWithin(tx, &booking, refund); err != nil {
			return err
		}

		request.Status = models.CancellationStatusApproved
		request.OwnerNotes = notes
		request.RefundPercent = &percent
		request.RefundAmount = &refund
		request.RespondedAt = &now
		return tx.Model(&request).Updates(map[string]interface{}{
			"status":         models.CancellationStatusApproved,
			"owner_notes":    notes,
			"refund_percent": percent,
			"refund_amount":  refund,
			"responded_at":   now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if request.Status == models.CancellationStatusApproved {
		s.Bookings.ReleaseInterval(&booking)
	}

	request.Booking = booking
	return &request, nil
}

// GetByID loads a request with its booking.
func (s *CancellationService) GetByID(ctx context.Context, requestID uint) (*models.CancellationRequest, error) {
	var request models.CancellationRequest
	err := s.DB.WithContext(ctx).Preload("Booking").Preload("Booking.Slip").First(&request, requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to retrieve request %d: %w", requestID, err)
	}
	return &request, nil
}

// ListForOwner returns requests pending for slips the owner holds.
func (s *CancellationService) ListForOwner(ctx context.Context, ownerID uint) ([]models.CancellationRequest, error) {
	var list []models.CancellationRequest
	err := s.DB.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = cancellation_requests.booking_id").
		Joins("JOIN slips ON slips.id = bookings.slip_id").
		Where("slips.owner_id = ?", ownerID).
		Preload("Booking").
		Order("cancellation_requests.requested_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for owner %d: %w", ownerID, err)
	}
	return list, nil
}

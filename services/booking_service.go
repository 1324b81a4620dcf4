package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marina-backend/models"
	"marina-backend/status"
	"marina-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the booking lifecycle: Pending -> Confirmed ->
// Completed, with Pending|Confirmed -> Cancelled as the side branch. It
// consults the interval index before admitting a booking and keeps the
// index in step with every transition.
type BookingService struct {
	DB      *gorm.DB
	Index   *IntervalIndex
	Pricing *PricingService
	Now     func() time.Time
}

func NewBookingService(db *gorm.DB, index *IntervalIndex, pricing *PricingService) *BookingService {
	return &BookingService{
		DB:      db,
		Index:   index,
		Pricing: pricing,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

type CreateBookingInput struct {
	SlipID         uint
	CustomerID     uint
	CheckIn        time.Time
	CheckOut       time.Time
	CouponCode     string
	SpecialRequest string
	VesselInfo     datatypes.JSON
}

// dateOnly truncates to UTC midnight; bookings are day-granular.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LoadIndex rebuilds the interval index from pending and confirmed bookings.
// Called once at startup before the server accepts requests.
func (s *BookingService) LoadIndex() error {
	var bookings []models.Booking
	err := s.DB.
		Where("status IN ?", []string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Find(&bookings).Error
	if err != nil {
		return fmt.Errorf("failed to load active bookings: %w", err)
	}

	for i := range bookings {
		s.Index.Load(bookings[i].SlipID, dateOnly(bookings[i].CheckIn), dateOnly(bookings[i].CheckOut))
	}
	return nil
}

// Create admits a new pending booking: reserve the interval, price the
// stay, persist. Any failure after the reserve releases the hold before
// returning, so a failed create leaves no partial occupation behind.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	checkIn := dateOnly(in.CheckIn)
	checkOut := dateOnly(in.CheckOut)
	if !checkIn.Before(checkOut) {
		return nil, status.ErrInvalidRange
	}

	var slip models.Slip
	if err := s.DB.WithContext(ctx).First(&slip, in.SlipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.ErrSlipNotFound
		}
		return nil, fmt.Errorf("failed to load slip %d: %w", in.SlipID, err)
	}
	if !slip.Active {
		return nil, status.ErrSlipUnavailable
	}

	var customer models.Customer
	if err := s.DB.WithContext(ctx).First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to load customer %d: %w", in.CustomerID, err)
	}

	hold, err := s.Index.Reserve(slip.ID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	quote, err := s.Pricing.QuoteBooking(ctx, slip.DailyRate, checkIn, checkOut, in.CouponCode)
	if err != nil {
		hold.Release()
		return nil, err
	}

	booking := models.Booking{
		ReferenceCode:  utils.GenerateReferenceCode(),
		SlipID:         slip.ID,
		CustomerID:     customer.ID,
		Status:         models.BookingStatusPending,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Nights:         quote.Nights,
		Subtotal:       quote.Subtotal,
		ServiceFee:     quote.ServiceFee,
		DiscountAmount: quote.DiscountAmount,
		Total:          quote.Total,
		CouponCode:     in.CouponCode,
		SpecialRequest: in.SpecialRequest,
		VesselInfo:     in.VesselInfo,
	}

	if err := s.DB.WithContext(ctx).Create(&booking).Error; err != nil {
		hold.Release()
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.Slip = slip
	booking.Customer = customer
	return &booking, nil
}

// Confirm records the charge reference and pins the interval. Only valid
// from Pending.
func (s *BookingService) Confirm(ctx context.Context, bookingID uint, chargeReference string) (*models.Booking, error) {
	var booking models.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return status.ErrBookingNotFound
			}
			return err
		}
		if !booking.CanConfirm() {
			return status.ErrInvalidBookingState
		}

		return tx.Model(&booking).Updates(map[string]interface{}{
			"status":           models.BookingStatusConfirmed,
			"charge_reference": chargeReference,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Index.Confirm(booking.SlipID, booking.CheckIn, booking.CheckOut)

	booking.Status = models.BookingStatusConfirmed
	booking.ChargeReference = chargeReference
	return &booking, nil
}

// Abandon drops a pending booking whose external charge failed or timed
// out. This is a creation failure, not a user cancellation: no cancellation
// record is written and no refund is computed.
func (s *BookingService) Abandon(ctx context.Context, bookingID uint) error {
	var booking models.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return status.ErrBookingNotFound
			}
			return err
		}
		if !booking.CanAbandon() {
			return status.ErrInvalidBookingState
		}

		now := s.Now()
		return tx.Model(&booking).Updates(map[string]interface{}{
			"status":       models.BookingStatusCancelled,
			"cancelled_at": now,
		}).Error
	})
	if err != nil {
		return err
	}

	s.Index.Release(booking.SlipID, booking.CheckIn, booking.CheckOut)
	return nil
}

// Cancel moves the booking to Cancelled with the given refund and releases
// its interval. Only valid from Pending or Confirmed.
func (s *BookingService) Cancel(ctx context.Context, bookingID uint, refund decimal.Decimal) (*models.Booking, error) {
	var booking models.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return status.ErrBookingNotFound
			}
			return err
		}
		return s.CancelWithin(tx, &booking, refund)
	})
	if err != nil {
		return nil, err
	}

	s.ReleaseInterval(&booking)
	return &booking, nil
}

// CancelWithin performs the cancel transition on an already-locked booking
// inside the caller's transaction. The caller must invoke ReleaseInterval
// after the transaction commits.
func (s *BookingService) CancelWithin(tx *gorm.DB, booking *models.Booking, refund decimal.Decimal) error {
	if !booking.CanCancel() {
		return status.ErrInvalidBookingState
	}

	now := s.Now()
	if err := tx.Model(booking).Updates(map[string]interface{}{
		"status":        models.BookingStatusCancelled,
		"refund_amount": refund,
		"cancelled_at":  now,
	}).Error; err != nil {
		return err
	}

	booking.Status = models.BookingStatusCancelled
	booking.RefundAmount = &refund
	booking.CancelledAt = &now
	return nil
}

// ReleaseInterval frees the booking's occupied interval. No-op if already
// released.
func (s *BookingService) ReleaseInterval(booking *models.Booking) {
	s.Index.Release(booking.SlipID, booking.CheckIn, booking.CheckOut)
}

// Complete marks a confirmed stay finished once its check-out date has
// passed. Never driven by cancellation logic.
func (s *BookingService) Complete(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return status.ErrBookingNotFound
			}
			return err
		}
		if !booking.CanComplete(s.Now()) {
			return status.ErrInvalidBookingState
		}

		return tx.Model(&booking).Update("status", models.BookingStatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}

	// A completed stay is in the past; drop it from the index.
	s.Index.Release(booking.SlipID, booking.CheckIn, booking.CheckOut)

	booking.Status = models.BookingStatusCompleted
	return &booking, nil
}

// AbandonStale abandons pending bookings older than the cutoff. Run
// periodically so a charge that never resolves eventually frees its soft
// lock; until then the interval deliberately stays occupied.
func (s *BookingService) AbandonStale(ctx context.Context, olderThan time.Duration) (int, error) {
	var stale []models.Booking
	cutoff := s.Now().Add(-olderThan)

	err := s.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.BookingStatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list stale pending bookings: %w", err)
	}

	abandoned := 0
	for i := range stale {
		if err := s.Abandon(ctx, stale[i].ID); err != nil {
			if errors.Is(err, status.ErrInvalidBookingState) {
				continue // confirmed or cancelled since we listed it
			}
			return abandoned, err
		}
		abandoned++
	}
	return abandoned, nil
}

// GetByID loads a booking with its relations.
func (s *BookingService) GetByID(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Preload("Slip").Preload("Customer").First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking %d: %w", bookingID, err)
	}
	return &booking, nil
}

// GetByReference loads a booking by its human-quotable reference code.
func (s *BookingService) GetByReference(ctx context.Context, referenceCode string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Preload("Slip").Preload("Customer").
		Where("reference_code = ?", referenceCode).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking %s: %w", referenceCode, err)
	}
	return &booking, nil
}

// ListForCustomer returns the customer's own bookings, newest first.
func (s *BookingService) ListForCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	var list []models.Booking
	err := s.DB.WithContext(ctx).
		Preload("Slip").
		Preload("Customer").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings for customer %d: %w", customerID, err)
	}
	return list, nil
}

// ListForOwner returns bookings on slips the owner holds, newest first.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID uint) ([]models.Booking, error) {
	var list []models.Booking
	err := s.DB.WithContext(ctx).
		Joins("JOIN slips ON slips.id = bookings.slip_id").
		Where("slips.owner_id = ?", ownerID).
		Preload("Slip").
		Preload("Customer").
		Order("bookings.created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings for owner %d: %w", ownerID, err)
	}
	return list, nil
}

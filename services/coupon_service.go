package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marina-backend/models"
	"marina-backend/status"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService resolves coupon codes against the coupons table. Codes carry
// already-resolved discount values (amount off or percent off subtotal);
// authoring them is out of scope.
type CouponService struct {
	DB *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{DB: db}
}

func (s *CouponService) Resolve(ctx context.Context, code string, base decimal.Decimal) (decimal.Decimal, error) {
	var coupon models.Coupon
	err := s.DB.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, status.ErrCouponNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to look up coupon %s: %w", code, err)
	}
	if !coupon.Usable(time.Now().UTC()) {
		return decimal.Zero, status.ErrCouponNotFound
	}

	if coupon.AmountOff != nil {
		return *coupon.AmountOff, nil
	}
	if coupon.PercentOff != nil {
		return base.Mul(*coupon.PercentOff).Div(decimal.NewFromInt(100)), nil
	}
	return decimal.Zero, nil
}

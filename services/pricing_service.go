package services

import (
	"context"
	"time"

	"marina-backend/status"

	"github.com/shopspring/decimal"
)

// CouponResolver is the pricing-rules collaborator: it turns a coupon code
// plus a base amount into a discount amount. The engine never owns coupon
// lifecycle.
type CouponResolver interface {
	Resolve(ctx context.Context, code string, base decimal.Decimal) (decimal.Decimal, error)
}

// Quote is the monetary breakdown of one candidate booking. Every field is
// rounded to 2 decimal places exactly once.
type Quote struct {
	Nights         int             `json:"nights"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ServiceFee     decimal.Decimal `json:"service_fee"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

type PricingService struct {
	FeeRate decimal.Decimal
	Coupons CouponResolver
}

func NewPricingService(feeRate decimal.Decimal, coupons CouponResolver) *PricingService {
	return &PricingService{FeeRate: feeRate, Coupons: coupons}
}

// Nights counts billable days in [checkIn, checkOut); the check-out day is
// not billed.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// QuoteBooking prices a stay. couponCode may be empty; a resolver failure
// (unknown code) propagates so the caller can reject the booking rather
// than silently dropping the discount.
func (p *PricingService) QuoteBooking(ctx context.Context, dailyRate decimal.Decimal, checkIn, checkOut time.Time, couponCode string) (Quote, error) {
	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return Quote{}, status.ErrInvalidRange
	}

	subtotal := dailyRate.Mul(decimal.NewFromInt(int64(nights))).Round(2)
	fee := subtotal.Mul(p.FeeRate).Round(2)

	discount := decimal.Zero
	if couponCode != "" {
		resolved, err := p.Coupons.Resolve(ctx, couponCode, subtotal)
		if err != nil {
			return Quote{}, err
		}
		discount = resolved
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		discount = discount.Round(2)
	}

	total := subtotal.Add(fee).Sub(discount).Round(2)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Nights:         nights,
		Subtotal:       subtotal,
		ServiceFee:     fee,
		DiscountAmount: discount,
		Total:          total,
	}, nil
}

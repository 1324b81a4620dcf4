package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeRequest is what the engine hands to the payment collaborator. The
// engine never computes provider specifics; it only records the returned
// charge reference.
type ChargeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Reference   string          `json:"reference"`
	Description string          `json:"description,omitempty"`
}

// ChargeAuthority is the external payment-capture collaborator.
type ChargeAuthority interface {
	// Authorize captures the amount and returns an opaque charge reference.
	Authorize(ctx context.Context, req ChargeRequest) (string, error)

	// Void releases a previously authorized charge.
	Void(ctx context.Context, chargeReference string) error
}

// SandboxChargeAuthority approves every charge. Used in development and in
// deployments where capture happens out of band.
type SandboxChargeAuthority struct{}

func NewSandboxChargeAuthority() *SandboxChargeAuthority {
	return &SandboxChargeAuthority{}
}

func (a *SandboxChargeAuthority) Authorize(ctx context.Context, req ChargeRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.Amount.IsNegative() {
		return "", fmt.Errorf("cannot authorize negative amount %s", req.Amount)
	}
	return fmt.Sprintf("sandbox-%s", uuid.NewString()), nil
}

func (a *SandboxChargeAuthority) Void(ctx context.Context, chargeReference string) error {
	return ctx.Err()
}

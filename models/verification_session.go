package models

import (
	"time"
)

// VerificationSession is a short-lived single-use identity code. Sessions
// live in Redis as a hash keyed by subject, so issuing a new code replaces
// the previous session for that subject.
type VerificationSession struct {
	Subject   string    `json:"subject"`
	Code      string    `json:"code"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired is checked lazily at redeem time; there is no background sweep.
func (s *VerificationSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

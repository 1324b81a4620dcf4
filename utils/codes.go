package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

var otpDigitMax = big.NewInt(10)

// GenerateOTP returns a numeric one-time code of the given length. Each
// digit is drawn independently and uniformly from crypto/rand.
func GenerateOTP(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, otpDigitMax)
		if err != nil {
			return "", err
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code), nil
}

// GenerateReferenceCode returns a short human-quotable booking reference,
// e.g. "MB-1A2B3C4D".
func GenerateReferenceCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("MB-%s", id[:8])
}

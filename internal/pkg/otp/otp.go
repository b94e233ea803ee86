package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Length is the number of digits in a generated code.
const Length = 6

// New generates a cryptographically random numeric code of Length digits.
// Leading zeros are preserved.
func New() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < Length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", Length, n.Int64()), nil
}

// Expiry returns the absolute expiry for a code issued now, in Unix
// milliseconds. Codes compare against this with a strict now > expiry check.
func Expiry(ttl time.Duration) int64 {
	return time.Now().Add(ttl).UnixMilli()
}

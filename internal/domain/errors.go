package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// Account-lifecycle kinds the generic five cannot express. The token
	// middleware and OTP flows need these to be distinguishable because each
	// maps to its own response code on the wire.
	ErrOTPExpired     = errors.New("otp expired")
	ErrOTPMismatch    = errors.New("otp mismatch")
	ErrSessionExpired = errors.New("session expired")
	ErrAccountBlocked = errors.New("account blocked")
	ErrAccountDeleted = errors.New("account deleted")
)

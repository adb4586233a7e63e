package domain

import "context"

// OTPStore is a keyed one-time-password store with TTL and attempt counters.
// Saving replaces any existing code for the key and resets attempts.
// Verify consumes an attempt; expired codes and exhausted attempts behave
// like a missing code.
type OTPStore interface {
	Save(ctx context.Context, email, otp string) error
	Verify(ctx context.Context, email, otp string) (bool, error)
	Delete(ctx context.Context, email string) error
}

// OTPMailer carries an issued code to its owner. The code never travels in
// an HTTP response.
type OTPMailer interface {
	SendOTP(ctx context.Context, email, otp string) error
}

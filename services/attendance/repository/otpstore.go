package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"attendance/domain"
)

// Keyed OTP storage with TTL and attempt counters, replacing the
// process-wide mutable map the original system kept.

type otpStore struct {
	db          *sql.DB
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewOTPStore(db *sql.DB, ttl time.Duration, maxAttempts int) domain.OTPStore {
	return &otpStore{
		db:          db,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// NewOTPStoreWithClock lets tests drive expiry with a fake clock.
func NewOTPStoreWithClock(db *sql.DB, ttl time.Duration, maxAttempts int, now func() time.Time) domain.OTPStore {
	return &otpStore{
		db:          db,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         now,
	}
}

func (st *otpStore) Save(ctx context.Context, email, otp string) error {
	expiresAt := st.now().Add(st.ttl)

	_, err := st.db.ExecContext(ctx, `
		INSERT INTO otp_storage (email, otp, created_at, expires_at, attempts)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (email)
		DO UPDATE SET
			otp = EXCLUDED.otp,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at,
			attempts = 0
	`, email, otp, st.now(), expiresAt)
	if err != nil {
		return &domain.BackendError{Op: "could not save OTP", Err: err}
	}
	return nil
}

// Verify consumes one attempt. Expired codes are deleted on read; exhausted
// or missing codes verify false.
func (st *otpStore) Verify(ctx context.Context, email, otp string) (bool, error) {
	var (
		stored    string
		expiresAt time.Time
		attempts  int
	)

	err := st.db.QueryRowContext(ctx, `
		SELECT otp, expires_at, attempts
		FROM otp_storage
		WHERE email = $1
	`, email).Scan(&stored, &expiresAt, &attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, &domain.BackendError{Op: "could not fetch OTP", Err: err}
	}

	if st.now().After(expiresAt) {
		if err := st.Delete(ctx, email); err != nil {
			return false, err
		}
		return false, nil
	}

	if attempts >= st.maxAttempts {
		return false, nil
	}

	if stored != otp {
		_, err := st.db.ExecContext(ctx, `
			UPDATE otp_storage SET attempts = attempts + 1 WHERE email = $1
		`, email)
		if err != nil {
			return false, &domain.BackendError{Op: "could not record OTP attempt", Err: err}
		}
		return false, nil
	}

	// Codes are single use.
	if err := st.Delete(ctx, email); err != nil {
		return false, err
	}
	return true, nil
}

func (st *otpStore) Delete(ctx context.Context, email string) error {
	_, err := st.db.ExecContext(ctx, `DELETE FROM otp_storage WHERE email = $1`, email)
	if err != nil {
		return &domain.BackendError{Op: "could not delete OTP", Err: err}
	}
	return nil
}

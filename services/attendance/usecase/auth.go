package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"attendance/domain"
)

type authUseCase struct {
	authRepo domain.AuthRepo
	otps     domain.OTPStore
	mailer   domain.OTPMailer
	TimeOut  time.Duration
}

func NewAuthUseCase(repo domain.AuthRepo, otps domain.OTPStore, mailer domain.OTPMailer, to time.Duration) domain.AuthUseCase {
	return &authUseCase{
		authRepo: repo,
		otps:     otps,
		mailer:   mailer,
		TimeOut:  to,
	}
}

func (auc *authUseCase) Login(ctx context.Context, data *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	return auc.authRepo.Login(ctx, data)
}

// RequestOTP issues a fresh 6-digit code for the email, mails it, and stores
// it, replacing any outstanding code. A code that could not be mailed is
// never stored.
func (auc *authUseCase) RequestOTP(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Errorf("could not generate otp: %v", err)
	}
	otp := fmt.Sprintf("%06d", n.Int64())

	if err := auc.mailer.SendOTP(ctx, email, otp); err != nil {
		return err
	}

	return auc.otps.Save(ctx, email, otp)
}

func (auc *authUseCase) VerifyOTP(ctx context.Context, email, otp string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	return auc.otps.Verify(ctx, email, otp)
}

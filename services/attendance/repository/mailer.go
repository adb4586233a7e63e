package repository

import (
	"context"
	"fmt"
	"time"

	"attendance/domain"

	"gopkg.in/gomail.v2"
)

type otpMailer struct {
	dialer *gomail.Dialer
	sender string
	ttl    time.Duration
}

// NewOTPMailer delivers verification codes over SMTP. The ttl only feeds the
// message text; the store enforces the actual expiry.
func NewOTPMailer(dialer *gomail.Dialer, sender string, ttl time.Duration) domain.OTPMailer {
	return &otpMailer{
		dialer: dialer,
		sender: sender,
		ttl:    ttl,
	}
}

func (om *otpMailer) SendOTP(ctx context.Context, email, otp string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", om.sender)
	message.SetHeader("To", email)
	message.SetHeader("Subject", "Your verification code")

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.\n\nIf you did not request this, you can safely ignore this email.",
		otp, int(om.ttl.Minutes()))
	message.SetBody("text/plain", body)

	if err := om.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send verification code to %s: %w", email, err)
	}
	return nil
}

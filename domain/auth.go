package domain

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	UserID   int    `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username string `gorm:"type:varchar(150);not null;unique" json:"username"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Role     string `gorm:"type:varchar(30);not null" json:"role"`
}

func (User) TableName() string {
	return "users"
}

type LoginRequest struct {
	Username string `json:"username" valid:"required~Username is required"`
	Password string `json:"password" valid:"required~Password is required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type AuthRepo interface {
	Login(ctx context.Context, data *LoginRequest) (*LoginResponse, error)
}

type OTPRequest struct {
	Email string `json:"email" valid:"required~Email is required,email~Email is invalid"`
}

type OTPVerifyRequest struct {
	Email string `json:"email" valid:"required~Email is required,email~Email is invalid"`
	OTP   string `json:"otp" valid:"required~OTP is required"`
}

type AuthUseCase interface {
	Login(ctx context.Context, data *LoginRequest) (*LoginResponse, error)
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (bool, error)
}

type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a registered account
type User struct {
	ID                      uuid.UUID   `json:"id"`
	Email                   string      `json:"email"`
	Username                string      `json:"username"`
	PasswordHash            string      `json:"-"`
	Qualifications          null.String `json:"qualifications"`
	Biography               null.String `json:"biography"`
	IsEmailVerified         bool        `json:"isEmailVerified"`
	VerificationToken       null.String `json:"-"`
	VerificationTokenExpiry null.Time   `json:"-"`
	CreatedAt               time.Time   `json:"createdAt"`
	UpdatedAt               time.Time   `json:"updatedAt"`
}

// VerificationExpired reports whether the pending verification token is stale at now.
// A user without an expiry never expires.
func (u *User) VerificationExpired(now time.Time) bool {
	return u.VerificationTokenExpiry.Valid && now.After(u.VerificationTokenExpiry.Time)
}

// RegisterInput represents input for creating a user
type RegisterInput struct {
	Email          string  `json:"email" binding:"required,email,max=255"`
	Username       string  `json:"username" binding:"required,min=3,max=50"`
	Password       string  `json:"password" binding:"required,min=8,maxbytes=72"`
	CaptchaToken   string  `json:"captchaToken" binding:"required"`
	Qualifications *string `json:"qualifications" binding:"omitempty,max=2000"`
	Biography      *string `json:"biography" binding:"omitempty,max=5000"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailInput carries a single address, used by resend and reset requests
type EmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput represents input for completing a password reset
type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,maxbytes=72"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Session *Session `json:"-"`
	User    *User    `json:"user"`
}

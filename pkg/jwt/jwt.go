package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// PurposePasswordReset marks tokens that may only be used to reset a password
const PurposePasswordReset = "password_reset"

// Claims represents JWT claims
type Claims struct {
	UserID      uuid.UUID `json:"userId"`
	Purpose     string    `json:"purpose"`
	Fingerprint string    `json:"fp"`
	jwt.RegisteredClaims
}

// ResetTokenService issues and validates short-lived, purpose-bound tokens
type ResetTokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewResetTokenService creates a new token service
func NewResetTokenService(secret string, expiry time.Duration) *ResetTokenService {
	return &ResetTokenService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry returns the lifetime of issued tokens
func (s *ResetTokenService) Expiry() time.Duration {
	return s.expiry
}

// Generate signs a token for userID carrying the given fingerprint
func (s *ResetTokenService) Generate(userID uuid.UUID, fingerprint string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:      userID,
		Purpose:     PurposePasswordReset,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signJWTToken(token, s.secret)
}

// Validate validates a token and returns the claims
func (s *ResetTokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Purpose != PurposePasswordReset {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

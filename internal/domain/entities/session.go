package entities

import (
	"time"

	"github.com/google/uuid"
)

// Session maps an opaque cookie value to an authenticated user
type Session struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

package repositories

import (
	"context"
	"time"

	"devqa.backend/internal/domain/entities"
)

// SessionStore persists server-side sessions keyed by the cookie value
type SessionStore interface {
	// Init prepares the backing storage (table creation, connectivity check).
	Init(ctx context.Context) error
	Create(ctx context.Context, session *entities.Session) error
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*entities.Session, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

package repositories

import (
	"context"
	"time"

	"devqa.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*entities.User, error)
	// Delete removes the row permanently; used to undo a registration.
	Delete(ctx context.Context, id uuid.UUID) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	UpdateVerificationToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

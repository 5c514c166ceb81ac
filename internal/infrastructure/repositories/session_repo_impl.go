package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// SessionRepository stores sessions in the application database
type SessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Init creates the sessions table when it is missing
func (r *SessionRepository) Init(ctx context.Context) error {
	migrator := r.db.WithContext(ctx).Migrator()
	if migrator.HasTable(&models.Session{}) {
		return nil
	}
	if err := migrator.CreateTable(&models.Session{}); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Create persists a session
func (r *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	m := &models.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		CreatedAt: session.CreatedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	}
	return translateError(r.db.WithContext(ctx).Create(m).Error)
}

// Get returns a live session
func (r *SessionRepository) Get(ctx context.Context, id string) (*entities.Session, error) {
	var m models.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, r.now().UTC()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}, nil
}

// Delete removes a session; unknown ids are ignored
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error
}

// DeleteExpired prunes sessions whose expiry is at or before now
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

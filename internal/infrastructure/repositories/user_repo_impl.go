package repositories

import (
	"context"
	"errors"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. Duplicate email or username yields ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		ID:                      user.ID,
		Email:                   user.Email,
		Username:                user.Username,
		PasswordHash:            user.PasswordHash,
		Qualifications:          user.Qualifications.Ptr(),
		Biography:               user.Biography.Ptr(),
		IsEmailVerified:         user.IsEmailVerified,
		VerificationToken:       user.VerificationToken.Ptr(),
		VerificationTokenExpiry: utcPtr(user.VerificationTokenExpiry.Ptr()),
		CreatedAt:               user.CreatedAt.UTC(),
		UpdatedAt:               user.UpdatedAt.UTC(),
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByUsername gets a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByVerificationToken gets the user holding a pending verification token
func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.first(ctx, "verification_token = ?", token)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Delete removes a user permanently
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkEmailVerified flags the user as verified and clears the pending token
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, map[string]interface{}{
		"is_email_verified":         true,
		"verification_token":        nil,
		"verification_token_expiry": nil,
	})
}

// UpdateVerificationToken replaces the pending token and its expiry
func (r *UserRepository) UpdateVerificationToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"verification_token":        token,
		"verification_token_expiry": expiry.UTC(),
	})
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *UserRepository) update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()

	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:                      m.ID,
		Email:                   m.Email,
		Username:                m.Username,
		PasswordHash:            m.PasswordHash,
		Qualifications:          null.StringFromPtr(m.Qualifications),
		Biography:               null.StringFromPtr(m.Biography),
		IsEmailVerified:         m.IsEmailVerified,
		VerificationToken:       null.StringFromPtr(m.VerificationToken),
		VerificationTokenExpiry: null.TimeFromPtr(m.VerificationTokenExpiry),
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

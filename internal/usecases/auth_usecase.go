package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/domain/repositories"
	"devqa.backend/internal/observability"
	"devqa.backend/internal/validation"
	"devqa.backend/pkg/crypto"
	"devqa.backend/pkg/jwt"
	"devqa.backend/pkg/logger"
	"devqa.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

const (
	// sessionIDBytes is the entropy of a session cookie value
	sessionIDBytes = 32

	// fallbackDummyHash is a well-formed bcrypt hash compared against for
	// unknown emails when the configured cost cannot produce one.
	fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// AccountMailer sends the account lifecycle emails
type AccountMailer interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// AuthOptions tunes token lifetimes and hashing cost
type AuthOptions struct {
	VerificationTTL time.Duration
	SessionTTL      time.Duration
	BcryptCost      int
}

// AuthUsecase handles registration, email verification, sessions and
// password resets
type AuthUsecase struct {
	userRepo    repositories.UserRepository
	sessions    repositories.SessionStore
	mailer      AccountMailer
	resetTokens *jwt.ResetTokenService
	opts        AuthOptions
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	sessions repositories.SessionStore,
	mailer AccountMailer,
	resetTokens *jwt.ResetTokenService,
	opts AuthOptions,
) *AuthUsecase {
	if opts.VerificationTTL <= 0 {
		opts.VerificationTTL = 24 * time.Hour
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = crypto.DefaultCost
	}
	return &AuthUsecase{
		userRepo:    userRepo,
		sessions:    sessions,
		mailer:      mailer,
		resetTokens: resetTokens,
		opts:        opts,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account and mails the verification link.
// If the email cannot be sent the account is removed again.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	if strings.TrimSpace(input.CaptchaToken) == "" {
		return nil, domainerrors.BadRequest("captcha verification required")
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domainerrors.Conflict("email already registered")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if _, err := u.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domainerrors.Conflict("username already taken")
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPasswordWithCost(input.Password, u.opts.BcryptCost)
	if err != nil {
		return nil, err
	}
	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return nil, err
	}

	now := u.now()
	user := &entities.User{
		ID:                      utils.GenerateUUIDv7(),
		Email:                   email,
		Username:                username,
		PasswordHash:            passwordHash,
		Qualifications:          null.StringFromPtr(input.Qualifications),
		Biography:               null.StringFromPtr(input.Biography),
		IsEmailVerified:         false,
		VerificationToken:       null.StringFrom(token),
		VerificationTokenExpiry: null.TimeFrom(now.Add(u.opts.VerificationTTL)),
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email or username already registered")
		}
		return nil, err
	}

	sendErr := u.mailer.SendVerification(ctx, user.Email, token)
	observability.RecordEmail("verification", sendErr)
	if sendErr != nil {
		logger.Error(ctx, "Verification email failed, rolling back registration",
			zap.String("user_id", user.ID.String()), zap.Error(sendErr))
		// The request may already be cancelled; the rollback must still run.
		if err := u.userRepo.Delete(context.WithoutCancel(ctx), user.ID); err != nil {
			logger.Error(ctx, "Failed to roll back registration",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		return nil, domainerrors.Dependency("failed to send verification email", sendErr)
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks credentials and opens a session
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			// Spend the same time as a real comparison.
			crypto.CheckPassword(input.Password, u.dummyPasswordHash())
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}
	if !user.IsEmailVerified {
		return nil, domainerrors.EmailNotVerified("please verify your email before logging in")
	}

	if crypto.NeedsRehash(user.PasswordHash) {
		u.upgradePasswordHash(ctx, user, input.Password)
	}

	sessionID, err := crypto.GenerateRandomToken(sessionIDBytes)
	if err != nil {
		return nil, err
	}
	now := u.now()
	session := &entities.Session{
		ID:        sessionID,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(u.opts.SessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &entities.AuthResponse{Session: session, User: user}, nil
}

func (u *AuthUsecase) dummyPasswordHash() string {
	u.dummyOnce.Do(func() {
		u.dummyHash = fallbackDummyHash
		hash, err := crypto.HashPasswordWithCost("devqa-dummy-password", u.opts.BcryptCost)
		if err != nil {
			logger.Warn(context.Background(), "Using fallback dummy password hash", zap.Error(err))
			return
		}
		u.dummyHash = hash
	})
	return u.dummyHash
}

func (u *AuthUsecase) upgradePasswordHash(ctx context.Context, user *entities.User, password string) {
	hash, err := crypto.HashPasswordWithCost(password, u.opts.BcryptCost)
	if err == nil {
		err = u.userRepo.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		logger.Warn(ctx, "Failed to upgrade legacy password hash",
			zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	user.PasswordHash = hash
}

// Logout ends the session. Unknown or empty ids are not an error.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return u.sessions.Delete(ctx, sessionID)
}

// CurrentUser resolves a session id to its user
func (u *AuthUsecase) CurrentUser(ctx context.Context, sessionID string) (*entities.User, error) {
	if sessionID == "" {
		return nil, domainerrors.Unauthorized("not authenticated")
	}

	session, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("not authenticated")
		}
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthorized("not authenticated")
		}
		return nil, err
	}
	return user, nil
}

// VerifyEmail redeems a verification token
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domainerrors.BadRequest("verification token is required")
	}

	user, err := u.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.BadRequest("invalid verification token")
		}
		return err
	}

	if user.VerificationExpired(u.now()) {
		return domainerrors.Expired("verification token has expired")
	}

	if err := u.userRepo.MarkEmailVerified(ctx, user.ID); err != nil {
		return err
	}
	logger.Info(ctx, "Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

// ResendVerification issues a fresh token and mails it again. A failed send
// leaves the new token in place.
func (u *AuthUsecase) ResendVerification(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return err
	}
	if user.IsEmailVerified {
		return domainerrors.AlreadyVerified("email is already verified")
	}

	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdateVerificationToken(ctx, user.ID, token, u.now().Add(u.opts.VerificationTTL)); err != nil {
		return err
	}

	sendErr := u.mailer.SendVerification(ctx, user.Email, token)
	observability.RecordEmail("verification", sendErr)
	if sendErr != nil {
		return domainerrors.Dependency("failed to send verification email", sendErr)
	}
	return nil
}

// RequestPasswordReset mails a reset link. Unknown addresses succeed
// silently so the endpoint does not reveal which emails are registered.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := u.resetTokens.Generate(user.ID, crypto.Fingerprint(user.PasswordHash))
	if err != nil {
		return err
	}

	sendErr := u.mailer.SendPasswordReset(ctx, user.Email, token)
	observability.RecordEmail("password_reset", sendErr)
	if sendErr != nil {
		return domainerrors.Dependency("failed to send password reset email", sendErr)
	}
	return nil
}

// ResetPassword sets a new password using a reset token. The token stops
// working once the password changes.
func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}

	claims, err := u.resetTokens.Validate(input.Token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return domainerrors.Expired("reset token has expired")
		}
		return domainerrors.BadRequest("invalid reset token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.BadRequest("invalid reset token")
		}
		return err
	}
	if crypto.Fingerprint(user.PasswordHash) != claims.Fingerprint {
		return domainerrors.BadRequest("reset token has already been used")
	}

	hash, err := crypto.HashPasswordWithCost(input.NewPassword, u.opts.BcryptCost)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	logger.Info(ctx, "Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

package handlers

import (
	"context"
	"net/http"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/interfaces/http/middleware"
	"devqa.backend/internal/interfaces/http/response"
	"devqa.backend/internal/validation"
	"github.com/gin-gonic/gin"
)

// VerifiedRedirect is where the browser lands after a successful verification
const VerifiedRedirect = "/auth?verified=true"

// AuthService is the account workflow the auth endpoints drive
type AuthService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error)
	Logout(ctx context.Context, sessionID string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
	cookie      middleware.SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// Register handles user registration
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "Registration successful. Please check your email to verify your account.")
}

// Login handles user login
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	authResponse, err := h.authService.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.cookie.Set(c, authResponse.Session)
	response.Success(c, http.StatusOK, authResponse.User)
}

// Logout ends the current session
// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		response.Error(c, err)
		return
	}

	h.cookie.Clear(c)
	response.Message(c, http.StatusOK, "Logged out")
}

// CurrentUser returns the user behind the session
// GET /api/user
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("not authenticated"))
		return
	}
	response.Success(c, http.StatusOK, user)
}

// VerifyEmail redeems the link from the verification email
// GET /api/verify-email?token=
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.authService.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, VerifiedRedirect)
}

// ResendVerification mails a fresh verification link
// POST /api/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input entities.EmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Verification email sent")
}

// RequestPasswordReset mails a reset link if the address is registered
// POST /api/password-reset/request
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var input entities.EmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "If that email is registered, a reset link is on its way")
}

// ConfirmPasswordReset sets a new password from a reset token
// POST /api/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var input entities.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &input); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Password updated")
}

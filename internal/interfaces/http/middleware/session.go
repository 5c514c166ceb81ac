package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/interfaces/http/response"
	"devqa.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// UserKey is the context key for the authenticated user
	UserKey = "user"
	// UserIDKey is the context key for user ID
	UserIDKey = "userId"
	// SessionIDKey is the context key for the raw session cookie value
	SessionIDKey = "sessionId"
)

// SessionResolver maps a session id to its user
type SessionResolver interface {
	CurrentUser(ctx context.Context, sessionID string) (*entities.User, error)
}

// SessionCookie describes the cookie that carries the session id
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set writes the cookie for session
func (sc SessionCookie) Set(c *gin.Context, session *entities.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, session.ID, maxAge, "/", "", sc.Secure, true)
}

// Clear expires the cookie on the client
func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sc.Name, "", -1, "/", "", sc.Secure, true)
}

// Read returns the session id sent by the client or ""
func (sc SessionCookie) Read(c *gin.Context) string {
	value, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return value
}

// SessionMiddleware resolves the session cookie to a user. Requests without
// a valid session continue anonymously.
func SessionMiddleware(resolver SessionResolver, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := cookie.Read(c)
		if sessionID == "" {
			c.Next()
			return
		}
		c.Set(SessionIDKey, sessionID)

		user, err := resolver.CurrentUser(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, domainerrors.ErrUnauthorized) {
				logger.Warn(c.Request.Context(), "Session lookup failed", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

// RequireAuth rejects requests that carry no valid session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUser(c); !ok {
			response.Error(c, domainerrors.Unauthorized("authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser gets the authenticated user from context
func GetUser(c *gin.Context) (*entities.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entities.User)
	return user, ok && user != nil
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}

// GetSessionID gets the session cookie value seen on this request
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"devqa.backend/internal/interfaces/http/response"
	"devqa.backend/pkg/logger"
	"devqa.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	CodeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"

	processingMarker = "processing"
)

var (
	redisAvailable = func() bool { return redis.GetClient() != nil }
	redisGet       = redis.Get
	redisSet       = redis.Set
	redisSetNX     = redis.SetNX
	redisDel       = redis.Del
)

// cachedResponse is the replayable outcome of a completed request
type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a client resubmits
// a create request with the same Idempotency-Key. Requests without the
// header, or while Redis is not configured, pass straight through.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || !redisAvailable() {
			c.Next()
			return
		}

		userID, _ := GetUserID(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s:%s", userID, c.FullPath(), key)
		ctx := c.Request.Context()

		val, err := redisGet(ctx, storageKey)
		switch {
		case err == nil && val == processingMarker:
			abortInProgress(c)
			return
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr != nil || cached.Status == 0 {
				logger.Warn(ctx, "Discarding unreadable idempotency record", zap.String("key", storageKey))
				_ = redisDel(ctx, storageKey)
				break
			}
			c.Header("X-Idempotency-Hit", "true")
			c.Data(cached.Status, "application/json; charset=utf-8", []byte(cached.Body))
			c.Abort()
			return
		case !errors.Is(err, goredis.Nil):
			logger.Warn(ctx, "Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err != nil || !acquired {
			abortInProgress(c)
			return
		}

		w := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			payload, _ := json.Marshal(cachedResponse{Status: status, Body: w.body.String()})
			if err := redisSet(ctx, storageKey, string(payload), RetentionDuration); err != nil {
				logger.Warn(ctx, "Failed to store idempotent response", zap.Error(err))
			}
			return
		}
		// Failed requests may be retried with the same key.
		_ = redisDel(ctx, storageKey)
	}
}

func abortInProgress(c *gin.Context) {
	response.ErrorWithError(c, http.StatusConflict, CodeIdempotencyConflict, "a request with this idempotency key is already in progress")
	c.Abort()
}

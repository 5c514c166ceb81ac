package jobs

import (
	"context"
	"time"

	"devqa.backend/internal/observability"
	"devqa.backend/pkg/logger"
	"go.uber.org/zap"
)

type expiredSessionPruner interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionCleanupJob periodically deletes expired sessions
type SessionCleanupJob struct {
	store    expiredSessionPruner
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
}

func NewSessionCleanupJob(store expiredSessionPruner, interval time.Duration) *SessionCleanupJob {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &SessionCleanupJob{
		store:    store,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *SessionCleanupJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting session cleanup job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Session cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Session cleanup job stopped")
			return
		case <-ticker.C:
			j.pruneExpiredSessions(ctx)
		}
	}
}

func (j *SessionCleanupJob) Stop() {
	close(j.stop)
}

func (j *SessionCleanupJob) pruneExpiredSessions(ctx context.Context) {
	n, err := j.store.DeleteExpired(ctx, j.now())
	if err != nil {
		logger.Error(ctx, "Failed to delete expired sessions", zap.Error(err))
		return
	}
	if n == 0 {
		return
	}

	observability.SessionsPrunedTotal.Add(float64(n))
	logger.Info(ctx, "Deleted expired sessions", zap.Int64("count", n))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"devqa.backend/internal/config"
	"devqa.backend/internal/infrastructure/datasources/postgres"
	"devqa.backend/internal/infrastructure/datasources/sqlite"
	"devqa.backend/internal/infrastructure/jobs"
	"devqa.backend/internal/validation"
	"devqa.backend/pkg/logger"
	"devqa.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	serviceName    = "devqa-backend"
	serviceVersion = "0.1.0"

	shutdownTimeout = 10 * time.Second
)

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openPostgres    = postgres.OpenGorm
	openSQLite      = sqlite.Open
	migratePostgres = func(ctx context.Context, cfg config.DatabaseConfig) error {
		db, err := postgres.NewConnection(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		return postgres.Migrate(ctx, db, "up")
	}
	newRedisSessionStore = redis.NewSessionStore
	runServer            = serveUntilDone
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	initLog(cfg.Server.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.UseWithGin()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	cleanupJob := jobs.NewSessionCleanupJob(a.sessions, cfg.Session.CleanupInterval)
	go cleanupJob.Start(ctx)
	defer cleanupJob.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, a),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(ctx, "DevQ&A backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("session_store", cfg.Session.Store),
	)
	if err := runServer(ctx, srv); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(context.Background(), "Server stopped")
	return nil
}

// serveUntilDone runs srv until it fails or ctx is cancelled, then drains
// in-flight requests.
func serveUntilDone(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

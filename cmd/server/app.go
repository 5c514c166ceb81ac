package main

import (
	"context"
	"fmt"

	"devqa.backend/internal/config"
	domainRepos "devqa.backend/internal/domain/repositories"
	"devqa.backend/internal/infrastructure/memory"
	"devqa.backend/internal/infrastructure/repositories"
	"devqa.backend/internal/interfaces/http/handlers"
	"devqa.backend/internal/usecases"
	"devqa.backend/pkg/jwt"
	"devqa.backend/pkg/logger"
	"devqa.backend/pkg/mailer"
	"devqa.backend/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// app holds the wired dependencies of one server process
type app struct {
	store    domainRepos.Store
	sessions domainRepos.SessionStore

	authUsecase     *usecases.AuthUsecase
	questionUsecase *usecases.QuestionUsecase
	answerUsecase   *usecases.AnswerUsecase
	commentUsecase  *usecases.CommentUsecase

	healthChecks map[string]handlers.HealthCheck
	closers      []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{healthChecks: make(map[string]handlers.HealthCheck)}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	if cfg.UsesRedis() {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.closers = append(a.closers, redis.Close)
		a.healthChecks["redis"] = redis.Ping
		logger.Info(ctx, "Redis initialized")
	}

	db, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessions, err := openSessionStore(cfg, db)
	if err != nil {
		return nil, err
	}
	if err := sessions.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	a.sessions = sessions

	mail := mailer.New(newMailSender(cfg.Mail), cfg.Server.PublicURL, cfg.Auth.VerificationTTL, cfg.Auth.ResetTTL)
	resetTokens := jwt.NewResetTokenService(cfg.Auth.ResetSecret, cfg.Auth.ResetTTL)

	a.authUsecase = usecases.NewAuthUsecase(a.store.Users(), sessions, mail, resetTokens, usecases.AuthOptions{
		VerificationTTL: cfg.Auth.VerificationTTL,
		SessionTTL:      cfg.Session.TTL,
		BcryptCost:      cfg.Auth.BcryptCost,
	})
	a.questionUsecase = usecases.NewQuestionUsecase(a.store.Questions())
	a.answerUsecase = usecases.NewAnswerUsecase(a.store.Questions(), a.store.Answers(), a.store.UnitOfWork())
	a.commentUsecase = usecases.NewCommentUsecase(a.store.Questions(), a.store.Answers(), a.store.Comments(), a.store.UnitOfWork())

	return a, nil
}

// openStore selects the storage backend. The returned *gorm.DB is nil for
// the in-memory driver.
func (a *app) openStore(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		a.store = memory.NewStore()
		logger.Warn(ctx, "Using in-memory storage, data is lost on restart")
		return nil, nil
	}

	level := gormlogger.Warn
	if cfg.Server.IsProduction() {
		level = gormlogger.Error
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err = openSQLite(cfg.Database.SQLitePath, level)
	default:
		if err := migratePostgres(ctx, cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		db, err = openPostgres(cfg.Database, level)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := repositories.NewStore(db)
	a.store = store
	a.closers = append(a.closers, store.Close)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}
	a.healthChecks["database"] = sqlDB.PingContext

	logger.Info(ctx, "Connected to database", zap.String("driver", cfg.Database.Driver))
	return db, nil
}

func openSessionStore(cfg *config.Config, db *gorm.DB) (domainRepos.SessionStore, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		store, err := newRedisSessionStore(cfg.Session.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize session store: %w", err)
		}
		return store, nil
	case config.SessionStoreMemory:
		return memory.NewSessionStore(), nil
	default:
		return repositories.NewSessionRepository(db), nil
	}
}

func newMailSender(cfg config.MailConfig) mailer.Sender {
	if cfg.Driver == config.MailDriverSMTP {
		return mailer.NewSMTPSender(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.From)
	}
	return mailer.LogSender{}
}

// close releases resources in reverse acquisition order
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn(context.Background(), "Failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}

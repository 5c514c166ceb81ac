package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"devqa.backend/internal/config"
	domainerrors "devqa.backend/internal/domain/errors"
	plog "devqa.backend/pkg/logger"
	"devqa.backend/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenPostgres := openPostgres
	origOpenSQLite := openSQLite
	origMigratePostgres := migratePostgres
	origNewRedisSessionStore := newRedisSessionStore
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openPostgres = origOpenPostgres
		openSQLite = origOpenSQLite
		migratePostgres = origMigratePostgres
		newRedisSessionStore = origNewRedisSessionStore
		runServer = origRunServer
	})

	loadDotenv = func(...string) error { return nil }
	initLog = plog.Init
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "18080",
			Env:            "development",
			PublicURL:      "http://localhost:18080",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: config.DatabaseConfig{
			Driver:  config.DriverMemory,
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "devqa",
			SSLMode: "disable",
		},
		Redis: config.RedisConfig{
			URL: "redis://localhost:6379",
		},
		Session: config.SessionConfig{
			Store:           config.SessionStoreMemory,
			CookieName:      "devqa.sid",
			TTL:             time.Hour,
			EncryptionKey:   "0000000000000000000000000000000000000000000000000000000000000000",
			CleanupInterval: time.Minute,
		},
		Mail: config.MailConfig{
			Driver: config.MailDriverLog,
		},
		Auth: config.AuthConfig{
			VerificationTTL: time.Hour,
			ResetSecret:     "test-secret",
			ResetTTL:        time.Hour,
			BcryptCost:      4,
		},
		RateLimit: config.RateLimitConfig{
			RPS:   100,
			Burst: 100,
		},
	}
}

func configWith(mutate func(*config.Config)) func() *config.Config {
	return func() *config.Config {
		cfg := baseTestConfig()
		mutate(cfg)
		return cfg
	}
}

// serveOnce replaces the listener with a single in-process request
func serveOnce(method, path, body string, check func(*httptest.ResponseRecorder)) func(context.Context, *http.Server) error {
	return func(_ context.Context, srv *http.Server) error {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, req)
		check(rec)
		return nil
	}
}

func TestRunMainProcess_InvalidConfig(t *testing.T) {
	withMainHooks(t)
	loadCfg = configWith(func(c *config.Config) { c.Database.Driver = "mongo" })

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)
	loadCfg = configWith(func(c *config.Config) { c.Session.Store = config.SessionStoreRedis })
	initRedis = func(string, string) error { return errors.New("redis down") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize redis")
}

func TestRunMainProcess_RedisSessionStoreError(t *testing.T) {
	withMainHooks(t)
	loadCfg = configWith(func(c *config.Config) { c.Session.Store = config.SessionStoreRedis })
	initRedis = func(string, string) error { return nil }
	newRedisSessionStore = func(string) (*redis.SessionStore, error) { return nil, errors.New("bad session key") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize session store")
}

func TestRunMainProcess_PostgresMigrationError(t *testing.T) {
	withMainHooks(t)
	loadCfg = configWith(func(c *config.Config) {
		c.Database.Driver = config.DriverPostgres
		c.Session.Store = config.SessionStoreDatabase
	})
	migratePostgres = func(context.Context, config.DatabaseConfig) error { return errors.New("connection refused") }
	openPostgres = func(config.DatabaseConfig, gormlogger.LogLevel) (*gorm.DB, error) {
		t.Fatal("gorm must not open before migrations succeed")
		return nil, nil
	}

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate database")
}

func TestRunMainProcess_SQLiteOpenError(t *testing.T) {
	withMainHooks(t)
	loadCfg = configWith(func(c *config.Config) { c.Database.Driver = config.DriverSQLite })
	openSQLite = func(string, gormlogger.LogLevel) (*gorm.DB, error) { return nil, errors.New("disk full") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)
	loadCfg = baseTestConfig
	runServer = func(context.Context, *http.Server) error { return errors.New("listen failed") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start server")
}

func TestRunMainProcess_MemoryBackendServesHealth(t *testing.T) {
	withMainHooks(t)
	loadCfg = baseTestConfig

	called := false
	runServer = serveOnce(http.MethodGet, "/health", "", func(rec *httptest.ResponseRecorder) {
		called = true
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"service":"devqa-backend"`)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	require.NoError(t, runMainProcess())
	assert.True(t, called)
}

func TestRunMainProcess_ServerAddressFromConfig(t *testing.T) {
	withMainHooks(t)
	loadCfg = baseTestConfig

	var addr string
	runServer = func(_ context.Context, srv *http.Server) error {
		addr = srv.Addr
		return nil
	}

	require.NoError(t, runMainProcess())
	assert.Equal(t, ":18080", addr)
}

func TestRunMainProcess_SQLiteBackendRegistersUser(t *testing.T) {
	withMainHooks(t)
	dbPath := filepath.Join(t.TempDir(), "devqa.db")
	loadCfg = configWith(func(c *config.Config) {
		c.Database.Driver = config.DriverSQLite
		c.Database.SQLitePath = dbPath
		c.Session.Store = config.SessionStoreDatabase
	})

	runServer = func(_ context.Context, srv *http.Server) error {
		register := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(
			`{"email":"ada@example.com","username":"ada","password":"correct horse","captchaToken":"ok"}`))
		register.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, register)
		assert.Equal(t, http.StatusCreated, rec.Code)

		login := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(
			`{"email":"ada@example.com","password":"correct horse"}`))
		login.Header.Set("Content-Type", "application/json")
		rec = httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, login)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), domainerrors.CodeEmailNotVerified)

		health := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec = httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, health)
		assert.Contains(t, rec.Body.String(), `"database":"up"`)
		return nil
	}

	require.NoError(t, runMainProcess())
}

func TestServeUntilDone_ShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, serveUntilDone(ctx, srv))
}

func TestServeUntilDone_ReturnsListenError(t *testing.T) {
	srv := &http.Server{Addr: "invalid-port", Handler: http.NotFoundHandler()}

	assert.Error(t, serveUntilDone(context.Background(), srv))
}

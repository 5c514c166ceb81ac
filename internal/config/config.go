package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Session store backends
const (
	SessionStoreDatabase = "database"
	SessionStoreRedis    = "redis"
	SessionStoreMemory   = "memory"
)

// Mail drivers
const (
	MailDriverSMTP = "smtp"
	MailDriverLog  = "log"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Mail      MailConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
	// PublicURL is the externally reachable origin used in email links.
	PublicURL      string
	AllowedOrigins []string
}

// IsProduction reports whether the server runs with production settings
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
	MaxOpen    int
	MaxIdle    int
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// RedisConfig holds Redis configuration. Redis is connected when Enabled is
// set or when it backs the session store.
type RedisConfig struct {
	Enabled  bool
	URL      string
	Password string
}

// SessionConfig holds session cookie and store configuration
type SessionConfig struct {
	Store           string
	CookieName      string
	TTL             time.Duration
	EncryptionKey   string
	CleanupInterval time.Duration
}

// MailConfig holds outbound email configuration
type MailConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// AuthConfig holds credential and token settings
type AuthConfig struct {
	VerificationTTL time.Duration
	ResetSecret     string
	ResetTTL        time.Duration
	BcryptCost      int
}

// RateLimitConfig limits credential endpoints per client IP
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5000"),
			Env:            getEnv("SERVER_ENV", "development"),
			PublicURL:      getEnv("PUBLIC_URL", "http://localhost:5000"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", DriverPostgres),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvAsInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			DBName:     getEnv("DB_NAME", "devqa"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "devqa.db"),
			MaxOpen:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdle:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Session: SessionConfig{
			Store:           getEnv("SESSION_STORE", SessionStoreDatabase),
			CookieName:      getEnv("SESSION_COOKIE_NAME", "devqa.sid"),
			TTL:             getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
			EncryptionKey:   getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
			CleanupInterval: getEnvAsDuration("SESSION_CLEANUP_INTERVAL", 15*time.Minute),
		},
		Mail: MailConfig{
			Driver:   getEnv("MAIL_DRIVER", MailDriverLog),
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvAsInt("SMTP_PORT", 2525),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@devqa.local"),
		},
		Auth: AuthConfig{
			VerificationTTL: getEnvAsDuration("VERIFICATION_TTL", 24*time.Hour),
			ResetSecret:     getEnv("RESET_TOKEN_SECRET", "change-this-in-production"),
			ResetTTL:        getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
			BcryptCost:      getEnvAsInt("BCRYPT_COST", 12),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsFloat("AUTH_RATE_LIMIT_RPS", 1),
			Burst: getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),
		},
	}
}

// UsesRedis reports whether the server needs a Redis connection
func (c *Config) UsesRedis() bool {
	return c.Redis.Enabled || c.Session.Store == SessionStoreRedis
}

// Validate rejects combinations the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	case SessionStoreDatabase:
		if c.Database.Driver == DriverMemory {
			return fmt.Errorf("SESSION_STORE=database requires a relational DB_DRIVER")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.Session.Store)
	}

	switch c.Mail.Driver {
	case MailDriverSMTP, MailDriverLog:
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q", c.Mail.Driver)
	}

	if c.Server.IsProduction() && c.Auth.ResetSecret == "change-this-in-production" {
		return fmt.Errorf("RESET_TOKEN_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends understood by STORE_BACKEND.
const (
	BackendSurreal  = "surreal"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Provider exposes configuration values to the rest of the application.
// Packages depend on this interface rather than on *Config so tests can
// substitute their own values.
type Provider interface {
	GetServerAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetSessionTTL() time.Duration
	GetStoreBackend() string
	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration
	GetPostgresDSN() string
	GetLogFormat() string
	GetLogLevel() string
	GetEmailProvider() string
	GetEmailSender() string
	GetEmailAPIKey() string
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr    string
	AppBaseURL    string
	SessionSecret string
	SessionTTL    time.Duration

	StoreBackend string

	DBUrl            string
	DBNs             string
	DBDb             string
	DBUser           string
	DBPass           string
	DBQueryTimeout   time.Duration
	DBExecuteTimeout time.Duration

	PostgresDSN string

	LogFormat string
	LogLevel  string

	EmailProvider string
	EmailSender   string
	EmailAPIKey   string
}

var _ Provider = (*Config)(nil)

// New loads configuration from a .env file (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment without
// touching .env files.
func FromEnv() (*Config, error) {
	var errs []error

	queryTimeout, err := durationEnv("DB_QUERY_TIMEOUT", 5*time.Second)
	errs = append(errs, err)
	executeTimeout, err := durationEnv("DB_EXECUTE_TIMEOUT", 10*time.Second)
	errs = append(errs, err)
	sessionTTL, err := durationEnv("SESSION_TTL", 7*24*time.Hour)
	errs = append(errs, err)

	cfg := &Config{
		ServerAddr:       envOr("SERVER_ADDR", ":8080"),
		AppBaseURL:       envOr("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SessionTTL:       sessionTTL,
		StoreBackend:     strings.ToLower(envOr("STORE_BACKEND", BackendSurreal)),
		DBUrl:            os.Getenv("SURREAL_URL"),
		DBNs:             os.Getenv("SURREAL_NS"),
		DBDb:             os.Getenv("SURREAL_DB"),
		DBUser:           os.Getenv("SURREAL_USER"),
		DBPass:           os.Getenv("SURREAL_PASS"),
		DBQueryTimeout:   queryTimeout,
		DBExecuteTimeout: executeTimeout,
		PostgresDSN:      os.Getenv("POSTGRES_DSN"),
		LogFormat:        envOr("LOG_FORMAT", "text"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		EmailProvider:    envOr("EMAIL_PROVIDER", "log"),
		EmailSender:      os.Getenv("EMAIL_SENDER"),
		EmailAPIKey:      os.Getenv("EMAIL_API_KEY"),
	}

	errs = append(errs, cfg.Validate())
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the values required by the selected backend are set.
func (c *Config) Validate() error {
	var errs []error
	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be set and at least 16 characters long"))
	}
	switch c.StoreBackend {
	case BackendSurreal:
		if c.DBUrl == "" || c.DBNs == "" || c.DBDb == "" {
			errs = append(errs, errors.New("SURREAL_URL, SURREAL_NS and SURREAL_DB are required for the surreal backend"))
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres backend"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}
	return errors.Join(errs...)
}

func (c *Config) GetServerAddr() string              { return c.ServerAddr }
func (c *Config) GetAppBaseURL() string              { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string           { return c.SessionSecret }
func (c *Config) GetSessionTTL() time.Duration       { return c.SessionTTL }
func (c *Config) GetStoreBackend() string            { return c.StoreBackend }
func (c *Config) GetDBURL() string                   { return c.DBUrl }
func (c *Config) GetDBNs() string                    { return c.DBNs }
func (c *Config) GetDBDb() string                    { return c.DBDb }
func (c *Config) GetDBUser() string                  { return c.DBUser }
func (c *Config) GetDBPass() string                  { return c.DBPass }
func (c *Config) GetDBQueryTimeout() time.Duration   { return c.DBQueryTimeout }
func (c *Config) GetDBExecuteTimeout() time.Duration { return c.DBExecuteTimeout }
func (c *Config) GetPostgresDSN() string             { return c.PostgresDSN }
func (c *Config) GetLogFormat() string               { return c.LogFormat }
func (c *Config) GetLogLevel() string                { return c.LogLevel }
func (c *Config) GetEmailProvider() string           { return c.EmailProvider }
func (c *Config) GetEmailSender() string             { return c.EmailSender }
func (c *Config) GetEmailAPIKey() string             { return c.EmailAPIKey }

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	if d <= 0 {
		return fallback, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
}

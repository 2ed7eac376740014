package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nfrund/biodex/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// DBConnection defines the interface for a managed database connection.
// It abstracts the underlying database driver and handles connection logic,
// allowing repositories to perform driver-specific operations without being
// tied to a concrete implementation.
type DBConnection interface {
	WithConnection(ctx context.Context, fn func(*surrealdb.DB) error) error
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	IsHealthy() bool
	StartMonitoring()
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration
}

// ExponentialBackoffRetryer retries an operation with exponential backoff and jitter.
type ExponentialBackoffRetryer struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	multiplier float64
	jitter     bool
}

// NewExponentialBackoffRetryer creates a new retryer with sensible defaults
func NewExponentialBackoffRetryer() *ExponentialBackoffRetryer {
	return &ExponentialBackoffRetryer{
		maxRetries: 5,
		baseDelay:  100 * time.Millisecond,
		maxDelay:   30 * time.Second,
		multiplier: 2.0,
		jitter:     true,
	}
}

// Retry executes a function with exponential backoff retry logic
func (r *ExponentialBackoffRetryer) Retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == r.maxRetries {
			break
		}

		delay := r.calculateDelay(attempt)
		slog.DebugContext(ctx, "Retry attempt failed, waiting before next attempt",
			"event", "retry_attempt",
			"attempt", attempt+1, "max_attempts", r.maxRetries+1,
			"delay_ms", delay.Milliseconds(), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

func (r *ExponentialBackoffRetryer) calculateDelay(attempt int) time.Duration {
	delay := float64(r.baseDelay) * math.Pow(r.multiplier, float64(attempt))
	if delay > float64(r.maxDelay) {
		delay = float64(r.maxDelay)
	}

	if r.jitter {
		// Add random jitter up to 25% of the delay
		jitterRange := delay * 0.25
		delay += rand.Float64() * jitterRange
	}

	return time.Duration(delay)
}

// Connection manages a SurrealDB connection with health checks and reconnection.
type Connection struct {
	cfg     config.Provider
	conn    *surrealdb.DB
	retryer *ExponentialBackoffRetryer
	mu      sync.RWMutex
	healthy bool
	done    chan struct{}
	once    sync.Once
}

var _ DBConnection = (*Connection)(nil)

// NewConnection creates a new managed database connection
func NewConnection(cfg config.Provider) *Connection {
	return &Connection{
		cfg:     cfg,
		retryer: NewExponentialBackoffRetryer(),
		done:    make(chan struct{}),
	}
}

// Connect establishes the initial database connection
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil // Already connected
	}

	return c.reconnect(ctx)
}

// WithConnection executes a function with a database connection, handling reconnections
func (c *Connection) WithConnection(ctx context.Context, fn func(*surrealdb.DB) error) error {
	conn := c.getConnection()
	if conn == nil {
		return NewDBError(ErrNotConnected, "no active connection")
	}

	err := fn(conn)
	if err == nil {
		return nil
	}

	// If the error is not a connection-related issue, just return it immediately.
	if !isConnectionError(err) {
		return err
	}

	slog.WarnContext(ctx, "Database operation failed, attempting to reconnect with backoff",
		"event", "db_reconnect_triggered", "error", err, "db_url", redactDBURL(c.cfg.GetDBURL()))

	return c.retryer.Retry(ctx, func() error {
		if reconnectErr := c.forceReconnect(ctx); reconnectErr != nil {
			return fmt.Errorf("reconnection failed: %w (original error: %v)", reconnectErr, err)
		}
		return fn(c.getConnection())
	})
}

// StartMonitoring begins health checks and automatic reconnection
func (c *Connection) StartMonitoring() {
	go c.monitorConnection()
}

// Close shuts down the connection and monitoring
func (c *Connection) Close(ctx context.Context) error {
	c.once.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close(ctx)
		c.conn = nil
		c.healthy = false
		return err
	}
	return nil
}

// IsHealthy returns the current connection status
func (c *Connection) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

// GetDBQueryTimeout returns the query timeout from the config provider.
func (c *Connection) GetDBQueryTimeout() time.Duration {
	return c.cfg.GetDBQueryTimeout()
}

// GetDBExecuteTimeout returns the execute timeout from the config provider.
func (c *Connection) GetDBExecuteTimeout() time.Duration {
	return c.cfg.GetDBExecuteTimeout()
}

func (c *Connection) getConnection() *surrealdb.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// reconnect must be called with c.mu held.
func (c *Connection) reconnect(ctx context.Context) error {
	if c.conn != nil {
		_ = c.conn.Close(ctx)
		c.conn = nil
	}

	dbURL := c.cfg.GetDBURL()
	slog.DebugContext(ctx, "Attempting to connect to database", "event", "db_connect_attempt", "db_url", redactDBURL(dbURL))

	conn, err := surrealdb.FromEndpointURLString(ctx, dbURL)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create database connection", "event", "db_connect_failure",
			"db_url", redactDBURL(dbURL), "error", err)
		c.healthy = false
		return fmt.Errorf("failed to connect to database at %s: %w", redactDBURL(dbURL), err)
	}

	authData := &surrealdb.Auth{
		Username: c.cfg.GetDBUser(),
		Password: c.cfg.GetDBPass(),
	}
	if _, err = conn.SignIn(ctx, authData); err != nil {
		_ = conn.Close(ctx)
		slog.ErrorContext(ctx, "Failed to sign in to database", "event", "db_auth_failure",
			"db_url", redactDBURL(dbURL), "user", c.cfg.GetDBUser(), "error", err)
		c.healthy = false
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err = conn.Use(ctx, c.cfg.GetDBNs(), c.cfg.GetDBDb()); err != nil {
		_ = conn.Close(ctx)
		slog.ErrorContext(ctx, "Failed to use namespace/database", "event", "db_namespace_failure",
			"namespace", c.cfg.GetDBNs(), "database", c.cfg.GetDBDb(), "error", err)
		c.healthy = false
		return fmt.Errorf("failed to use namespace/db: %w", err)
	}

	c.conn = conn
	c.healthy = true
	slog.InfoContext(ctx, "Database connection established", "event", "db_connect_success",
		"db_url", redactDBURL(dbURL), "namespace", c.cfg.GetDBNs(), "database", c.cfg.GetDBDb())
	return nil
}

func (c *Connection) forceReconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconnect(ctx)
}

func (c *Connection) monitorConnection() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := c.checkHealth(ctx); err != nil {
				slog.WarnContext(ctx, "Database health check failed, attempting reconnection with backoff",
					"event", "db_health_check_failure", "error", err)
				if reconnectErr := c.retryer.Retry(ctx, func() error {
					return c.forceReconnect(ctx)
				}); reconnectErr != nil {
					slog.ErrorContext(ctx, "Failed to reconnect to database after health check failure",
						"event", "db_reconnect_failure", "error", reconnectErr)
				}
			}
			cancel()
		case <-c.done:
			return
		}
	}
}

func (c *Connection) checkHealth(ctx context.Context) error {
	conn := c.getConnection()
	if conn == nil {
		c.setHealthy(false)
		return errors.New("no active database connection")
	}

	// Version is a lightweight round trip to the server.
	if _, err := conn.Version(ctx); err != nil {
		c.setHealthy(false)
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.setHealthy(true)
	return nil
}

func (c *Connection) setHealthy(v bool) {
	c.mu.Lock()
	c.healthy = v
	c.mu.Unlock()
}

// isConnectionError checks if an error is likely due to a lost or failed connection.
// This helps prevent unnecessary reconnection attempts for application-level errors.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "use of closed network connection") ||
		strings.Contains(errMsg, "unexpected eof")
}

// redactDBURL parses a database URL and returns it with the password redacted.
func redactDBURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	return parsedURL.Redacted()
}

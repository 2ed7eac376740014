package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/nfrund/biodex/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

// TestMain loads the test-specific environment variables from `.env.test`.
func TestMain(m *testing.M) {
	if err := godotenv.Load("../../.env.test"); err != nil {
		log.Println("Warning: .env.test file not found, relying on environment variables.")
	}
	os.Exit(m.Run())
}

// setupTestConn connects to the test database and returns the managed
// connection. Integration tests are skipped in short mode or when no
// database is reachable.
func setupTestConn(t *testing.T) *Connection {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		t.Skipf("database not reachable: %v", err)
	}
	require.NoError(t, Migrate(ctx, conn))

	t.Cleanup(func() {
		ctx := context.Background()
		_ = conn.WithConnection(ctx, func(db *surrealdb.DB) error {
			for _, table := range []string{tableSpecies, tableSession, tableUser, "counter"} {
				_, _ = surrealdb.Query[any](ctx, db, "DELETE "+table, nil)
			}
			return nil
		})
		_ = conn.Close(ctx)
	})
	return conn
}

// fakeConn satisfies DBConnection without a server, for unit tests that
// swap in their own executor.
type fakeConn struct {
	queryTimeout   time.Duration
	executeTimeout time.Duration
}

func (f fakeConn) WithConnection(ctx context.Context, fn func(*surrealdb.DB) error) error {
	return NewDBError(ErrNotConnected, "fake connection")
}
func (f fakeConn) Connect(ctx context.Context) error  { return nil }
func (f fakeConn) Close(ctx context.Context) error    { return nil }
func (f fakeConn) IsHealthy() bool                    { return true }
func (f fakeConn) StartMonitoring()                   {}
func (f fakeConn) GetDBQueryTimeout() time.Duration   { return f.queryTimeout }
func (f fakeConn) GetDBExecuteTimeout() time.Duration { return f.executeTimeout }

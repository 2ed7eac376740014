package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/nfrund/biodex/internal/config"
	"github.com/nfrund/biodex/internal/database"
	"github.com/nfrund/biodex/internal/database/memory"
	"github.com/nfrund/biodex/internal/database/postgres"
	"github.com/nfrund/biodex/internal/domain"
)

// Stores are the repositories for the configured backend.
type Stores struct {
	Species  domain.SpeciesRepository
	Profiles domain.ProfileRepository
	Users    domain.UserRepository
	close    func(context.Context) error
}

// Shutdown releases the backend connection.
func (s *Stores) Shutdown(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStores connects to the backend named by STORE_BACKEND and applies
// its schema.
func OpenStores(ctx context.Context, cfg config.Provider) (*Stores, error) {
	switch cfg.GetStoreBackend() {
	case config.BackendSurreal:
		return openSurreal(ctx, cfg)
	case config.BackendPostgres:
		return openPostgres(ctx, cfg)
	case config.BackendMemory:
		slog.WarnContext(ctx, "Using the in-memory store; data is lost on exit", "event", "store_memory")
		users := memory.NewUserStore(cfg.GetSessionTTL())
		return &Stores{Species: memory.NewSpeciesStore(), Profiles: users, Users: users}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.GetStoreBackend())
}

func openSurreal(ctx context.Context, cfg config.Provider) (*Stores, error) {
	conn := database.NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to surrealdb: %w", err)
	}
	fail := func(err error) (*Stores, error) {
		_ = conn.Close(ctx)
		return nil, err
	}

	if err := database.Migrate(ctx, conn); err != nil {
		return fail(err)
	}
	species, err := database.NewSpeciesStore(conn)
	if err != nil {
		return fail(err)
	}
	profiles, err := database.NewProfileStore(conn)
	if err != nil {
		return fail(err)
	}
	users, err := database.NewUserStore(conn, cfg.GetSessionTTL())
	if err != nil {
		return fail(err)
	}

	conn.StartMonitoring()
	return &Stores{Species: species, Profiles: profiles, Users: users, close: conn.Close}, nil
}

func openPostgres(ctx context.Context, cfg config.Provider) (*Stores, error) {
	db, err := postgres.Open(ctx, cfg.GetPostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	users := postgres.NewUsersRepo(db, cfg.GetSessionTTL())
	return &Stores{
		Species:  postgres.NewSpeciesRepo(db),
		Profiles: users,
		Users:    users,
		close:    closeSQL(db),
	}, nil
}

func closeSQL(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}

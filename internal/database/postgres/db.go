// Package postgres implements the repositories on PostgreSQL through pgx's
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nfrund/biodex/internal/domain"
)

// Open opens a connection pool and verifies it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func schema() []string {
	kingdoms := make([]string, 0, len(domain.Kingdoms()))
	for _, k := range domain.Kingdoms() {
		kingdoms = append(kingdoms, "'"+string(k)+"'")
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			display_name  TEXT NOT NULL,
			biography     TEXT,
			password_hash BYTEA NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS species (
			id               BIGSERIAL PRIMARY KEY,
			scientific_name  TEXT NOT NULL CHECK (btrim(scientific_name) <> ''),
			common_name      TEXT,
			kingdom          TEXT NOT NULL CHECK (kingdom IN (` + strings.Join(kingdoms, ", ") + `)),
			total_population BIGINT CHECK (total_population > 0),
			image            TEXT,
			description      TEXT,
			endangered       BOOLEAN NOT NULL DEFAULT FALSE,
			author           TEXT NOT NULL
		)`,
	}
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	slog.InfoContext(ctx, "Database schema applied", "event", "db_schema_applied", "backend", "postgres")
	return nil
}

// isUniqueViolation reports whether err is a unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

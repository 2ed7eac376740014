package database

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nfrund/biodex/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// schemaStatements define the tables and indexes the stores rely on. Every
// statement is idempotent.
func schemaStatements() []string {
	kingdoms := make([]string, 0, len(domain.Kingdoms()))
	for _, k := range domain.Kingdoms() {
		kingdoms = append(kingdoms, "'"+string(k)+"'")
	}
	return []string{
		"DEFINE TABLE IF NOT EXISTS user SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS user_email ON TABLE user COLUMNS email UNIQUE",
		"DEFINE TABLE IF NOT EXISTS session SCHEMALESS",
		"DEFINE INDEX IF NOT EXISTS session_token ON TABLE session COLUMNS token UNIQUE",
		"DEFINE TABLE IF NOT EXISTS species SCHEMALESS",
		"DEFINE FIELD IF NOT EXISTS scientific_name ON TABLE species TYPE string ASSERT string::len(string::trim($value)) > 0",
		"DEFINE FIELD IF NOT EXISTS kingdom ON TABLE species TYPE string ASSERT $value IN [" + strings.Join(kingdoms, ", ") + "]",
		"DEFINE TABLE IF NOT EXISTS counter SCHEMALESS",
	}
}

// Migrate applies the schema on conn.
func Migrate(ctx context.Context, conn DBConnection) error {
	return conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		for _, stmt := range schemaStatements() {
			if err := Execute(ctx, db, stmt, nil); err != nil {
				return WrapError(err, "apply schema")
			}
		}
		slog.InfoContext(ctx, "Database schema applied", "event", "db_schema_applied", "statements", len(schemaStatements()))
		return nil
	})
}

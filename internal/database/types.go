package database

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Client is a type-safe SurrealDB client for records of type T.
type Client[T any] interface {
	// Create inserts data into table and returns the stored record.
	Create(ctx context.Context, table string, data any) (*T, error)

	// CreateWithID inserts data under a caller chosen record ID.
	CreateWithID(ctx context.Context, id surrealmodels.RecordID, data any) (*T, error)

	// Select returns the record with the given ID, or ErrNotFound.
	Select(ctx context.Context, id surrealmodels.RecordID) (*T, error)

	// Update merges data into an existing record and returns the result.
	// Returns ErrNotFound if the record does not exist.
	Update(ctx context.Context, id surrealmodels.RecordID, data any) (*T, error)

	// Delete removes the record. Returns ErrNotFound if it did not exist.
	Delete(ctx context.Context, id surrealmodels.RecordID) error

	// Query executes a raw query and returns the first statement's rows.
	Query(ctx context.Context, query string, params map[string]any) ([]T, error)

	// QueryOne executes a raw query and returns the first row, or nil.
	QueryOne(ctx context.Context, query string, params map[string]any) (*T, error)

	// Execute runs a query whose result is discarded.
	Execute(ctx context.Context, query string, params map[string]any) error
}

// QueryExecutor handles the execution of database queries.
// This interface is used internally by the Client implementation.
type QueryExecutor[T any] interface {
	Query(ctx context.Context, query string, params map[string]any) ([]T, error)
	QueryOne(ctx context.Context, query string, params map[string]any) (*T, error)
	Execute(ctx context.Context, query string, params map[string]any) error
}

// ClientOption defines a function that configures a Client.
type ClientOption[T any] func(*client[T])

// WithExecutor configures the client to use a custom QueryExecutor.
// Tests use it to run the client without a live database.
func WithExecutor[T any](executor QueryExecutor[T]) ClientOption[T] {
	return func(c *client[T]) {
		c.executor = executor
	}
}

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Query executes a raw SurrealQL query with parameters and returns the rows
// of its first statement, decoded into T.
//
// Example:
//
//	query := "SELECT * FROM species WHERE kingdom = $kingdom"
//	rows, err := Query[speciesRow](ctx, db, query, map[string]any{"kingdom": "Fungi"})
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	queryResults, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, NewDBError(fmt.Errorf("%w: %w", ErrQueryFailed, err), "query execution failed").WithQuery(query)
	}
	if queryResults == nil || len(*queryResults) == 0 {
		return nil, nil
	}
	return (*queryResults)[0].Result, nil
}

// QueryOne executes a query and returns a single result.
// If no results are found, it returns nil, nil.
func QueryOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	// CREATE/UPDATE/DELETE statements don't support LIMIT.
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") && !hasLimitClause(query) {
		query += " LIMIT 1"
	}

	results, err := Query[T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// Execute runs a query and discards its result.
func Execute(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) error {
	if _, err := surrealdb.Query[any](ctx, db, query, params); err != nil {
		return NewDBError(fmt.Errorf("%w: %w", ErrQueryFailed, err), "query execution failed").WithQuery(query)
	}
	return nil
}

// surrealExecutor runs queries through a managed connection so that
// dropped connections are re-established transparently.
type surrealExecutor[T any] struct {
	conn DBConnection
}

// NewSurrealExecutor returns a QueryExecutor backed by conn.
func NewSurrealExecutor[T any](conn DBConnection) QueryExecutor[T] {
	return &surrealExecutor[T]{conn: conn}
}

func (e *surrealExecutor[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	var rows []T
	err := e.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		rows, err = Query[T](ctx, db, query, params)
		return err
	})
	return rows, err
}

func (e *surrealExecutor[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	var row *T
	err := e.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		row, err = QueryOne[T](ctx, db, query, params)
		return err
	})
	return row, err
}

func (e *surrealExecutor[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	return e.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		return Execute(ctx, db, query, params)
	})
}

// hasLimitClause checks if the query already has a LIMIT clause
func hasLimitClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " LIMIT ")
}

package database

import (
	"context"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

type client[T any] struct {
	executor       QueryExecutor[T]
	queryTimeout   time.Duration
	executeTimeout time.Duration
}

// NewClient creates a type-safe client that runs its queries over conn.
func NewClient[T any](conn DBConnection, opts ...ClientOption[T]) (Client[T], error) {
	if conn == nil {
		return nil, NewDBError(ErrInvalidInput, "connection cannot be nil")
	}

	queryTimeout := conn.GetDBQueryTimeout()
	if queryTimeout <= 0 {
		return nil, NewDBError(ErrInvalidInput, "DB_QUERY_TIMEOUT must be a positive duration")
	}
	executeTimeout := conn.GetDBExecuteTimeout()
	if executeTimeout <= 0 {
		return nil, NewDBError(ErrInvalidInput, "DB_EXECUTE_TIMEOUT must be a positive duration")
	}

	c := &client[T]{
		executor:       NewSurrealExecutor[T](conn),
		queryTimeout:   queryTimeout,
		executeTimeout: executeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *client[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()
	return c.executor.Query(ctx, query, params)
}

func (c *client[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()
	return c.executor.QueryOne(ctx, query, params)
}

func (c *client[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()
	return c.executor.Execute(ctx, query, params)
}

func (c *client[T]) Create(ctx context.Context, table string, data any) (*T, error) {
	if table == "" {
		return nil, NewDBError(ErrInvalidInput, "table cannot be empty")
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	result, err := c.executor.QueryOne(ctx, "CREATE type::table($table) CONTENT $data",
		map[string]any{"table": table, "data": data})
	if err != nil {
		return nil, NewDBError(err, "create operation failed")
	}
	return result, nil
}

func (c *client[T]) CreateWithID(ctx context.Context, id surrealmodels.RecordID, data any) (*T, error) {
	if id.Table == "" || id.ID == nil {
		return nil, NewDBError(ErrInvalidInput, "record id cannot be empty")
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	result, err := c.executor.QueryOne(ctx, "CREATE $id CONTENT $data",
		map[string]any{"id": id, "data": data})
	if err != nil {
		return nil, NewDBError(err, "create operation failed")
	}
	return result, nil
}

func (c *client[T]) Select(ctx context.Context, id surrealmodels.RecordID) (*T, error) {
	if id.Table == "" || id.ID == nil {
		return nil, NewDBError(ErrInvalidInput, "record id cannot be empty")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()

	result, err := c.executor.QueryOne(ctx, "SELECT * FROM $id", map[string]any{"id": id})
	if err != nil {
		return nil, NewDBError(err, "select operation failed")
	}
	if result == nil {
		return nil, NewDBError(ErrNotFound, "record not found")
	}
	return result, nil
}

func (c *client[T]) Update(ctx context.Context, id surrealmodels.RecordID, data any) (*T, error) {
	if id.Table == "" || id.ID == nil {
		return nil, NewDBError(ErrInvalidInput, "record id cannot be empty")
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	result, err := c.executor.QueryOne(ctx, "UPDATE $id MERGE $data RETURN AFTER",
		map[string]any{"id": id, "data": data})
	if err != nil {
		return nil, NewDBError(err, "update operation failed")
	}
	if result == nil {
		return nil, NewDBError(ErrNotFound, "record not found")
	}
	return result, nil
}

func (c *client[T]) Delete(ctx context.Context, id surrealmodels.RecordID) error {
	if id.Table == "" || id.ID == nil {
		return NewDBError(ErrInvalidInput, "record id cannot be empty")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	deleted, err := c.executor.QueryOne(ctx, "DELETE $id RETURN BEFORE", map[string]any{"id": id})
	if err != nil {
		return NewDBError(err, "delete operation failed")
	}
	if deleted == nil {
		return NewDBError(ErrNotFound, "record not found")
	}
	return nil
}

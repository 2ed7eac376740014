package database

import (
	"errors"
	"fmt"

	"github.com/nfrund/biodex/internal/domain"
)

// Common database errors that can be checked using errors.Is()
var (
	// ErrNotFound is returned when a record is not found in the database.
	// It matches domain.ErrNotFound so handlers need not import this package.
	ErrNotFound = fmt.Errorf("record not found: %w", domain.ErrNotFound)

	// ErrInvalidInput is returned when invalid input is provided to a method.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrNotConnected is returned when no healthy connection is available.
	ErrNotConnected = errors.New("database not connected")

	// ErrQueryFailed is returned when a query execution fails.
	ErrQueryFailed = errors.New("query execution failed")
)

// DBError represents a database error with additional context.
type DBError struct {
	// The underlying error that was returned by the database driver.
	err error

	// Additional context about where the error occurred.
	context string

	// The query that was being executed when the error occurred.
	query string
}

// NewDBError creates a new DBError with the given error and context.
// The context should describe what operation was being performed when the error occurred.
func NewDBError(err error, context string) *DBError {
	return &DBError{
		err:     err,
		context: context,
	}
}

// WithQuery adds query information to the error.
func (e *DBError) WithQuery(query string) *DBError {
	e.query = query
	return e
}

// Error returns the error message.
func (e *DBError) Error() string {
	msg := e.context
	if e.query != "" {
		msg = fmt.Sprintf("%s (query: %s)", msg, e.query)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DBError) Unwrap() error {
	return e.err
}

// WrapError wraps an error with additional context.
// If the error is already a DBError, it adds the context to the existing error.
// Otherwise, it creates a new DBError with the given context.
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return &DBError{
			err:     dbErr.err,
			context: fmt.Sprintf("%s: %s", context, dbErr.context),
			query:   dbErr.query,
		}
	}

	return NewDBError(err, context)
}

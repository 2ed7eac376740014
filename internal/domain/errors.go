package domain

import "errors"

// Sentinel errors shared by every store backend. Callers match them with
// errors.Is; backends wrap them with context.
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	ErrNotFound           = errors.New("requested resource not found")
	ErrNotAuthor          = errors.New("only the author of this record can change it")
)

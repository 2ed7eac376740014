package domain

import (
	"context"
	"time"
)

// User is the signed-in identity. Its ID is shared with the user's Profile and
// is stored as the Author of every species the user creates.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// SignUpRequest carries everything needed to create an account and its profile.
type SignUpRequest struct {
	Email       string  `validate:"required,email"`
	Password    string  `validate:"required,min=8"`
	DisplayName string  `validate:"required,max=80"`
	Biography   *string `validate:"omitempty,max=2000"`
}

// Session is an issued login token.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// UserRepository defines the contract for accounts and sessions.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	// SignUp creates the account and profile and returns a fresh session.
	SignUp(ctx context.Context, req SignUpRequest) (*User, *Session, error)
	// SignIn verifies credentials and returns a fresh session.
	SignIn(ctx context.Context, email, password string) (*User, *Session, error)
	// Authenticate resolves a session token to its user. Unknown or expired
	// tokens return ErrInvalidCredentials.
	Authenticate(ctx context.Context, token string) (*User, error)
	// SignOut invalidates a session token. Unknown tokens are not an error.
	SignOut(ctx context.Context, token string) error
}

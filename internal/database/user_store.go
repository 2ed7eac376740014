package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nfrund/biodex/internal/domain"
)

// UserStore implements domain.UserRepository on SurrealDB. Passwords are
// hashed in the database with argon2 and sessions are opaque random tokens
// kept in the session table.
type UserStore struct {
	users    Client[userRow]
	sessions Client[sessionRow]
	ttl      time.Duration
	now      func() time.Time
}

var _ domain.UserRepository = (*UserStore)(nil)

// NewUserStore creates a user repository backed by conn. Sessions it issues
// expire after ttl.
func NewUserStore(conn DBConnection, ttl time.Duration) (*UserStore, error) {
	users, err := NewClient[userRow](conn)
	if err != nil {
		return nil, err
	}
	sessions, err := NewClient[sessionRow](conn)
	if err != nil {
		return nil, err
	}
	return &UserStore{users: users, sessions: sessions, ttl: ttl, now: time.Now}, nil
}

func (s *UserStore) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, *domain.Session, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.users.QueryOne(ctx, "SELECT id FROM user WHERE email = $email", map[string]any{"email": email})
	if err != nil {
		return nil, nil, WrapError(err, "check existing user")
	}
	if existing != nil {
		return nil, nil, domain.ErrUserAlreadyExists
	}

	query := `CREATE user CONTENT {
		email: $email,
		display_name: $display_name,
		biography: $biography,
		password: crypto::argon2::generate($password)
	} RETURN id, email, display_name, biography`
	row, err := s.users.QueryOne(ctx, query, map[string]any{
		"email":        email,
		"display_name": strings.TrimSpace(req.DisplayName),
		"biography":    req.Biography,
		"password":     req.Password,
	})
	if err != nil {
		// The unique index catches a concurrent signup with the same email.
		if strings.Contains(strings.ToLower(err.Error()), "already contains") {
			return nil, nil, domain.ErrUserAlreadyExists
		}
		return nil, nil, WrapError(err, "create user")
	}
	if row == nil || row.ID == nil {
		return nil, nil, NewDBError(ErrQueryFailed, "create user returned no record")
	}

	sess, err := s.issueSession(ctx, *row)
	if err != nil {
		return nil, nil, err
	}
	slog.InfoContext(ctx, "User signed up", "event", "user_signup", "user_id", row.id())
	return row.toUser(), sess, nil
}

func (s *UserStore) SignIn(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	query := `SELECT id, email, display_name, biography FROM user
		WHERE email = $email AND crypto::argon2::compare(password, $password)`
	row, err := s.users.QueryOne(ctx, query, map[string]any{
		"email":    normalizeEmail(email),
		"password": password,
	})
	if err != nil {
		return nil, nil, WrapError(err, "sign in")
	}
	if row == nil || row.ID == nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	sess, err := s.issueSession(ctx, *row)
	if err != nil {
		return nil, nil, err
	}
	return row.toUser(), sess, nil
}

func (s *UserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}
	sess, err := s.sessions.QueryOne(ctx,
		"SELECT * FROM session WHERE token = $token AND expires_at > time::now()",
		map[string]any{"token": token})
	if err != nil {
		return nil, WrapError(err, "load session")
	}
	if sess == nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.Select(ctx, sess.User)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, WrapError(err, "load session user")
	}
	return user.toUser(), nil
}

func (s *UserStore) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Execute(ctx, "DELETE session WHERE token = $token", map[string]any{"token": token}); err != nil {
		return WrapError(err, "sign out")
	}
	return nil
}

func (s *UserStore) issueSession(ctx context.Context, user userRow) (*domain.Session, error) {
	token, err := generateSecureToken(32)
	if err != nil {
		return nil, err
	}
	row, err := s.sessions.Create(ctx, tableSession, newSessionRow(token, *user.ID, s.now().Add(s.ttl)))
	if err != nil {
		return nil, WrapError(err, "create session")
	}
	if row == nil {
		return nil, NewDBError(ErrQueryFailed, "create session returned no record")
	}
	return row.toDomain(), nil
}

// generateSecureToken creates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

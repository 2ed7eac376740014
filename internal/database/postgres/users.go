package postgres

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/biodex/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// UsersRepo stores accounts and sessions. It also serves profiles, which
// are the public columns of the users table.
type UsersRepo struct {
	db  *sql.DB
	ttl time.Duration
}

var (
	_ domain.UserRepository    = (*UsersRepo)(nil)
	_ domain.ProfileRepository = (*UsersRepo)(nil)
)

func NewUsersRepo(db *sql.DB, ttl time.Duration) *UsersRepo {
	return &UsersRepo{db: db, ttl: ttl}
}

func (r *UsersRepo) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, *domain.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:          "user:" + uuid.NewString(),
		Email:       normalizeEmail(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, biography, password_hash)
		VALUES ($1,$2,$3,$4,$5)
	`, u.ID, u.Email, u.DisplayName, req.Biography, hash)
	if isUniqueViolation(err) {
		return nil, nil, domain.ErrUserAlreadyExists
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	sess, err := r.issue(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return &u, sess, nil
}

func (r *UsersRepo) SignIn(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	var u domain.User
	var hash []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash FROM users WHERE email = $1
	`, normalizeEmail(email)).Scan(&u.ID, &u.Email, &u.DisplayName, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("sign in: %w", err)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	sess, err := r.issue(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return &u, sess, nil
}

func (r *UsersRepo) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.display_name
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > now()
	`, token).Scan(&u.ID, &u.Email, &u.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return &u, nil
}

func (r *UsersRepo) SignOut(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// List returns every profile ordered by ID descending.
func (r *UsersRepo) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, email, biography FROM users ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.Email, &p.Biography); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *UsersRepo) issue(ctx context.Context, userID string) (*domain.Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate secure token: %w", err)
	}
	sess := domain.Session{
		Token:     hex.EncodeToString(buf),
		UserID:    userID,
		ExpiresAt: time.Now().Add(r.ttl).UTC(),
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at) VALUES ($1,$2,$3)
	`, sess.Token, sess.UserID, sess.ExpiresAt); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

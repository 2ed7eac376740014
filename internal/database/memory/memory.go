// Package memory provides in-process repositories for development, tests and
// the seed command's dry runs. All state is lost on exit.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/biodex/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// SpeciesStore is a goroutine-safe in-memory domain.SpeciesRepository.
type SpeciesStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Species
}

var _ domain.SpeciesRepository = (*SpeciesStore)(nil)

func NewSpeciesStore() *SpeciesStore {
	return &SpeciesStore{byID: make(map[int64]domain.Species)}
}

func (s *SpeciesStore) List(ctx context.Context) ([]domain.Species, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Species, 0, len(s.byID))
	for _, sp := range s.byID {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *SpeciesStore) FindByID(ctx context.Context, id int64) (*domain.Species, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("species %d: %w", id, domain.ErrNotFound)
	}
	return &sp, nil
}

func (s *SpeciesStore) Create(ctx context.Context, author string, in domain.SpeciesInput) (*domain.Species, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sp := domain.Species{ID: s.nextID, Author: author}
	sp.Apply(in)
	s.byID[sp.ID] = sp
	return &sp, nil
}

func (s *SpeciesStore) Update(ctx context.Context, id int64, in domain.SpeciesInput) (*domain.Species, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("species %d: %w", id, domain.ErrNotFound)
	}
	sp.Apply(in)
	s.byID[id] = sp
	return &sp, nil
}

func (s *SpeciesStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("species %d: %w", id, domain.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

type account struct {
	profile  domain.Profile
	password []byte
}

// UserStore keeps accounts, profiles and sessions in memory. It implements
// both domain.UserRepository and domain.ProfileRepository.
type UserStore struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by user ID
	byEmail  map[string]string
	sessions map[string]domain.Session
	ttl      time.Duration
	now      func() time.Time
	cost     int
}

var (
	_ domain.UserRepository    = (*UserStore)(nil)
	_ domain.ProfileRepository = (*UserStore)(nil)
)

// NewUserStore returns an empty store whose sessions expire after ttl.
func NewUserStore(ttl time.Duration) *UserStore {
	return &UserStore{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
	}
}

func (s *UserStore) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, *domain.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	email := normalizeEmail(req.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return nil, nil, domain.ErrUserAlreadyExists
	}

	acc := &account{
		profile: domain.Profile{
			ID:          "user:" + uuid.NewString(),
			DisplayName: strings.TrimSpace(req.DisplayName),
			Email:       email,
			Biography:   req.Biography,
		},
		password: hash,
	}
	s.accounts[acc.profile.ID] = acc
	s.byEmail[email] = acc.profile.ID

	sess, err := s.issueLocked(acc.profile.ID)
	if err != nil {
		return nil, nil, err
	}
	return toUser(acc), sess, nil
}

func (s *UserStore) SignIn(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil, domain.ErrInvalidCredentials
	}
	acc := s.accounts[id]
	if err := bcrypt.CompareHashAndPassword(acc.password, []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}
	sess, err := s.issueLocked(id)
	if err != nil {
		return nil, nil, err
	}
	return toUser(acc), sess, nil
}

func (s *UserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok || !s.now().Before(sess.ExpiresAt) {
		return nil, domain.ErrInvalidCredentials
	}
	acc, ok := s.accounts[sess.UserID]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return toUser(acc), nil
}

func (s *UserStore) SignOut(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// List returns every profile ordered by ID descending.
func (s *UserStore) List(ctx context.Context) ([]domain.Profile, error) {
	s.mu.RLock()
	out := make([]domain.Profile, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.profile)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *UserStore) issueLocked(userID string) (*domain.Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate secure token: %w", err)
	}
	sess := domain.Session{
		Token:     hex.EncodeToString(buf),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	return &sess, nil
}

func toUser(a *account) *domain.User {
	return &domain.User{ID: a.profile.ID, Email: a.profile.Email, DisplayName: a.profile.DisplayName}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

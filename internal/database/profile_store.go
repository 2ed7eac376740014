package database

import (
	"context"

	"github.com/nfrund/biodex/internal/domain"
)

// ProfileStore reads profiles from the user table.
type ProfileStore struct {
	client Client[userRow]
}

var _ domain.ProfileRepository = (*ProfileStore)(nil)

// NewProfileStore creates a profile repository backed by conn.
func NewProfileStore(conn DBConnection) (*ProfileStore, error) {
	c, err := NewClient[userRow](conn)
	if err != nil {
		return nil, err
	}
	return &ProfileStore{client: c}, nil
}

// List returns every profile ordered by ID descending.
func (s *ProfileStore) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := s.client.Query(ctx,
		"SELECT id, email, display_name, biography FROM user ORDER BY id DESC", nil)
	if err != nil {
		return nil, WrapError(err, "list profiles")
	}
	out := make([]domain.Profile, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toProfile())
	}
	return out, nil
}

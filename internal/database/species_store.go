package database

import (
	"context"
	"fmt"

	"github.com/nfrund/biodex/internal/domain"
)

// SpeciesStore implements domain.SpeciesRepository on SurrealDB. Records are
// keyed by a sequential integer drawn from a counter record.
type SpeciesStore struct {
	client  Client[speciesRow]
	counter Client[counterRow]
}

var _ domain.SpeciesRepository = (*SpeciesStore)(nil)

// NewSpeciesStore creates a species repository backed by conn.
func NewSpeciesStore(conn DBConnection) (*SpeciesStore, error) {
	c, err := NewClient[speciesRow](conn)
	if err != nil {
		return nil, err
	}
	counter, err := NewClient[counterRow](conn)
	if err != nil {
		return nil, err
	}
	return &SpeciesStore{client: c, counter: counter}, nil
}

// List returns all species, newest first.
func (s *SpeciesStore) List(ctx context.Context) ([]domain.Species, error) {
	rows, err := s.client.Query(ctx, "SELECT * FROM species ORDER BY id DESC", nil)
	if err != nil {
		return nil, WrapError(err, "list species")
	}
	out := make([]domain.Species, 0, len(rows))
	for _, r := range rows {
		sp, err := r.toDomain()
		if err != nil {
			return nil, WrapError(err, "decode species")
		}
		out = append(out, sp)
	}
	return out, nil
}

func (s *SpeciesStore) FindByID(ctx context.Context, id int64) (*domain.Species, error) {
	row, err := s.client.Select(ctx, speciesID(id))
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("find species %d", id))
	}
	sp, err := row.toDomain()
	if err != nil {
		return nil, WrapError(err, "decode species")
	}
	return &sp, nil
}

func (s *SpeciesStore) Create(ctx context.Context, author string, in domain.SpeciesInput) (*domain.Species, error) {
	next, err := s.counter.QueryOne(ctx, "UPSERT counter:species SET value += 1 RETURN AFTER", nil)
	if err != nil {
		return nil, WrapError(err, "allocate species id")
	}
	if next == nil {
		return nil, NewDBError(ErrQueryFailed, "allocate species id: counter returned nothing")
	}

	row, err := s.client.CreateWithID(ctx, speciesID(next.Value), speciesContent(author, in))
	if err != nil {
		return nil, WrapError(err, "create species")
	}
	sp, err := row.toDomain()
	if err != nil {
		return nil, WrapError(err, "decode species")
	}
	return &sp, nil
}

// Update replaces every editable field. Absent optional values are stored as
// null so clearing a field in the form clears it in the record.
func (s *SpeciesStore) Update(ctx context.Context, id int64, in domain.SpeciesInput) (*domain.Species, error) {
	row, err := s.client.Update(ctx, speciesID(id), in.Fields())
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("update species %d", id))
	}
	sp, err := row.toDomain()
	if err != nil {
		return nil, WrapError(err, "decode species")
	}
	return &sp, nil
}

func (s *SpeciesStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, speciesID(id)); err != nil {
		return WrapError(err, fmt.Sprintf("delete species %d", id))
	}
	return nil
}

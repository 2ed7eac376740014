package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nfrund/biodex/internal/domain"
)

const speciesColumns = `id, scientific_name, common_name, kingdom, total_population,
	image, description, endangered, author`

type SpeciesRepo struct {
	db *sql.DB
}

var _ domain.SpeciesRepository = (*SpeciesRepo)(nil)

func NewSpeciesRepo(db *sql.DB) *SpeciesRepo {
	return &SpeciesRepo{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSpecies(row scanner) (domain.Species, error) {
	var s domain.Species
	var kingdom string
	err := row.Scan(
		&s.ID,
		&s.ScientificName,
		&s.CommonName,
		&kingdom,
		&s.TotalPopulation,
		&s.Image,
		&s.Description,
		&s.Endangered,
		&s.Author,
	)
	s.Kingdom = domain.Kingdom(kingdom)
	return s, err
}

func (r *SpeciesRepo) List(ctx context.Context) ([]domain.Species, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+speciesColumns+` FROM species ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	defer rows.Close()

	var out []domain.Species
	for rows.Next() {
		s, err := scanSpecies(rows)
		if err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SpeciesRepo) FindByID(ctx context.Context, id int64) (*domain.Species, error) {
	s, err := scanSpecies(r.db.QueryRowContext(ctx, `SELECT `+speciesColumns+` FROM species WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("species %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find species %d: %w", id, err)
	}
	return &s, nil
}

func (r *SpeciesRepo) Create(ctx context.Context, author string, in domain.SpeciesInput) (*domain.Species, error) {
	s, err := scanSpecies(r.db.QueryRowContext(ctx, `
		INSERT INTO species (
			scientific_name, common_name, kingdom, total_population,
			image, description, endangered, author
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+speciesColumns,
		in.ScientificName,
		in.CommonName,
		string(in.Kingdom),
		in.TotalPopulation,
		in.Image,
		in.Description,
		in.Endangered,
		author,
	))
	if err != nil {
		return nil, fmt.Errorf("create species: %w", err)
	}
	return &s, nil
}

func (r *SpeciesRepo) Update(ctx context.Context, id int64, in domain.SpeciesInput) (*domain.Species, error) {
	s, err := scanSpecies(r.db.QueryRowContext(ctx, `
		UPDATE species
		SET
			scientific_name = $2,
			common_name = $3,
			kingdom = $4,
			total_population = $5,
			image = $6,
			description = $7,
			endangered = $8
		WHERE id = $1
		RETURNING `+speciesColumns,
		id,
		in.ScientificName,
		in.CommonName,
		string(in.Kingdom),
		in.TotalPopulation,
		in.Image,
		in.Description,
		in.Endangered,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("species %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update species %d: %w", id, err)
	}
	return &s, nil
}

func (r *SpeciesRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM species WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete species %d: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("species %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

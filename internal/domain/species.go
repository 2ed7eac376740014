package domain

import (
	"context"
	"strconv"
)

// Species is a catalogued species record. Only the user whose ID equals
// Author may change or delete it.
type Species struct {
	ID              int64   `json:"id"`
	ScientificName  string  `json:"scientific_name"`
	CommonName      *string `json:"common_name"`
	Kingdom         Kingdom `json:"kingdom"`
	TotalPopulation *int64  `json:"total_population"`
	Image           *string `json:"image"`
	Description     *string `json:"description"`
	Endangered      bool    `json:"endangered"`
	Author          string  `json:"author"`
}

// IsAuthor reports whether userID may mutate this record.
func (s *Species) IsAuthor(userID string) bool {
	return userID != "" && s.Author == userID
}

// Input returns the editable fields of the record.
func (s *Species) Input() SpeciesInput {
	return SpeciesInput{
		ScientificName:  s.ScientificName,
		CommonName:      s.CommonName,
		Kingdom:         s.Kingdom,
		TotalPopulation: s.TotalPopulation,
		Image:           s.Image,
		Description:     s.Description,
		Endangered:      s.Endangered,
	}
}

// Apply copies validated input onto the record.
func (s *Species) Apply(in SpeciesInput) {
	s.ScientificName = in.ScientificName
	s.CommonName = in.CommonName
	s.Kingdom = in.Kingdom
	s.TotalPopulation = in.TotalPopulation
	s.Image = in.Image
	s.Description = in.Description
	s.Endangered = in.Endangered
}

// SpeciesInput is a validated, normalised set of species fields. Optional
// fields are nil when absent and never hold blank strings.
type SpeciesInput struct {
	ScientificName  string  `json:"scientific_name" validate:"required"`
	CommonName      *string `json:"common_name"`
	Kingdom         Kingdom `json:"kingdom" validate:"kingdom"`
	TotalPopulation *int64  `json:"total_population" validate:"omitempty,gt=0"`
	Image           *string `json:"image" validate:"omitempty,http_url"`
	Description     *string `json:"description"`
	Endangered      bool    `json:"endangered"`
}

// Fields returns the update payload keyed by column name. Absent optional
// values are present as nil so an update clears them.
func (in SpeciesInput) Fields() map[string]any {
	return map[string]any{
		"scientific_name":  in.ScientificName,
		"common_name":      in.CommonName,
		"kingdom":          string(in.Kingdom),
		"total_population": in.TotalPopulation,
		"image":            in.Image,
		"description":      in.Description,
		"endangered":       in.Endangered,
	}
}

// Form renders the input back into raw form values.
func (in SpeciesInput) Form() SpeciesForm {
	f := SpeciesForm{
		ScientificName: in.ScientificName,
		CommonName:     deref(in.CommonName),
		Kingdom:        string(in.Kingdom),
		Image:          deref(in.Image),
		Description:    deref(in.Description),
	}
	if in.TotalPopulation != nil {
		f.TotalPopulation = strconv.FormatInt(*in.TotalPopulation, 10)
	}
	if in.Endangered {
		f.Endangered = "true"
	}
	return f
}

// SpeciesRepository defines persistence for species records.
type SpeciesRepository interface {
	// List returns every species ordered by ID descending.
	List(ctx context.Context) ([]Species, error)
	// FindByID returns ErrNotFound when no record has the given ID.
	FindByID(ctx context.Context, id int64) (*Species, error)
	Create(ctx context.Context, author string, in SpeciesInput) (*Species, error)
	// Update applies in to the record with the given ID and returns the result.
	Update(ctx context.Context, id int64, in SpeciesInput) (*Species, error)
	Delete(ctx context.Context, id int64) error
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Package seed bulk-loads species from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/nfrund/biodex/internal/domain"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// File is the seed file layout.
//
//	species:
//	  - scientific_name: Panthera leo
//	    kingdom: Animalia
//	    endangered: true
type File struct {
	Species []Entry `yaml:"species"`
}

// Entry holds one species as raw values. Scalars are kept as text so they
// go through the same parsing as the web form.
type Entry struct {
	ScientificName  string `yaml:"scientific_name"`
	CommonName      string `yaml:"common_name"`
	Kingdom         string `yaml:"kingdom"`
	TotalPopulation string `yaml:"total_population"`
	Image           string `yaml:"image"`
	Description     string `yaml:"description"`
	Endangered      string `yaml:"endangered"`
}

func (e Entry) form() domain.SpeciesForm {
	return domain.SpeciesForm{
		ScientificName:  e.ScientificName,
		CommonName:      e.CommonName,
		Kingdom:         e.Kingdom,
		TotalPopulation: e.TotalPopulation,
		Image:           e.Image,
		Description:     e.Description,
		Endangered:      e.Endangered,
	}
}

// EntryError reports an invalid entry by its position in the file.
type EntryError struct {
	Index  int
	Name   string
	Fields domain.FieldErrors
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (%q): %s", e.Index+1, e.Name, e.Fields.Error())
}

// Load reads and validates the seed file at path. Every invalid entry is
// reported; nothing is returned unless all entries are valid.
func Load(fs afero.Fs, path string) ([]domain.SpeciesInput, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse validates a seed document.
func Parse(raw []byte) ([]domain.SpeciesInput, error) {
	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(file.Species) == 0 {
		return nil, errors.New("seed file lists no species")
	}

	inputs := make([]domain.SpeciesInput, 0, len(file.Species))
	var errs []error
	for i, entry := range file.Species {
		in, ferrs := domain.ParseSpeciesForm(entry.form())
		if ferrs != nil {
			errs = append(errs, &EntryError{Index: i, Name: entry.ScientificName, Fields: ferrs})
			continue
		}
		inputs = append(inputs, in)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return inputs, nil
}

// Run creates every input, authored by author, in file order. It stops at
// the first store error and returns how many were created.
func Run(ctx context.Context, repo domain.SpeciesRepository, author string, inputs []domain.SpeciesInput) (int, error) {
	for i, in := range inputs {
		if _, err := repo.Create(ctx, author, in); err != nil {
			return i, fmt.Errorf("create %q: %w", in.ScientificName, err)
		}
	}
	return len(inputs), nil
}

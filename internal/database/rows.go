package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nfrund/biodex/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const (
	tableUser    = "user"
	tableSession = "session"
	tableSpecies = "species"
)

// speciesRow is the stored shape of a species record.
type speciesRow struct {
	ID              *surrealmodels.RecordID `json:"id,omitempty"`
	ScientificName  string                  `json:"scientific_name"`
	CommonName      *string                 `json:"common_name"`
	Kingdom         string                  `json:"kingdom"`
	TotalPopulation *int64                  `json:"total_population"`
	Image           *string                 `json:"image"`
	Description     *string                 `json:"description"`
	Endangered      bool                    `json:"endangered"`
	Author          string                  `json:"author"`
}

func (r speciesRow) toDomain() (domain.Species, error) {
	s := domain.Species{
		ScientificName:  r.ScientificName,
		CommonName:      r.CommonName,
		Kingdom:         domain.Kingdom(r.Kingdom),
		TotalPopulation: r.TotalPopulation,
		Image:           r.Image,
		Description:     r.Description,
		Endangered:      r.Endangered,
		Author:          r.Author,
	}
	if r.ID == nil {
		return s, fmt.Errorf("species row has no id")
	}
	id, err := recordNumber(*r.ID)
	if err != nil {
		return s, err
	}
	s.ID = id
	return s, nil
}

func speciesContent(author string, in domain.SpeciesInput) map[string]any {
	data := in.Fields()
	data["author"] = author
	return data
}

// recordNumber extracts the integer key of a record such as species:42.
func recordNumber(id surrealmodels.RecordID) (int64, error) {
	switch v := id.ID.(type) {
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("record %s has a non numeric key: %w", id.String(), err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("record %s has an unsupported key type %T", id.String(), id.ID)
}

func speciesID(id int64) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(tableSpecies, id)
}

type counterRow struct {
	Value int64 `json:"value"`
}

// userRow is the stored shape of a user record without its password hash.
type userRow struct {
	ID          *surrealmodels.RecordID `json:"id,omitempty"`
	Email       string                  `json:"email"`
	DisplayName string                  `json:"display_name"`
	Biography   *string                 `json:"biography"`
}

func (r userRow) id() string {
	if r.ID == nil {
		return ""
	}
	return r.ID.String()
}

func (r userRow) toUser() *domain.User {
	return &domain.User{ID: r.id(), Email: r.Email, DisplayName: r.DisplayName}
}

func (r userRow) toProfile() domain.Profile {
	return domain.Profile{ID: r.id(), DisplayName: r.DisplayName, Email: r.Email, Biography: r.Biography}
}

type sessionRow struct {
	ID        *surrealmodels.RecordID      `json:"id,omitempty"`
	Token     string                       `json:"token"`
	User      surrealmodels.RecordID       `json:"user"`
	ExpiresAt surrealmodels.CustomDateTime `json:"expires_at"`
}

func (r sessionRow) toDomain() *domain.Session {
	return &domain.Session{Token: r.Token, UserID: r.User.String(), ExpiresAt: r.ExpiresAt.Time}
}

func newSessionRow(token string, user surrealmodels.RecordID, expires time.Time) sessionRow {
	return sessionRow{Token: token, User: user, ExpiresAt: surrealmodels.CustomDateTime{Time: expires.UTC()}}
}

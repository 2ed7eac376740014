package species

import (
	"context"

	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/pubsub"
)

// Event is the payload of every species change event.
type Event struct {
	ID             int64          `json:"id"`
	ScientificName string         `json:"scientific_name"`
	Kingdom        domain.Kingdom `json:"kingdom,omitempty"`
	Endangered     bool           `json:"endangered"`
	Author         string         `json:"author,omitempty"`
}

var (
	Created = pubsub.NewEvent[Event]("species.created")
	Updated = pubsub.NewEvent[Event]("species.updated")
	Deleted = pubsub.NewEvent[Event]("species.deleted")
)

func eventOf(s *domain.Species) Event {
	return Event{
		ID:             s.ID,
		ScientificName: s.ScientificName,
		Kingdom:        s.Kingdom,
		Endangered:     s.Endangered,
		Author:         s.Author,
	}
}

// eventStore publishes a change event after every successful mutation.
// Publish failures are logged and never fail the mutation.
type eventStore struct {
	domain.SpeciesRepository
	pub   pubsub.Publisher
	actor string
}

func newEventStore(repo domain.SpeciesRepository, pub pubsub.Publisher, actor string) *eventStore {
	return &eventStore{SpeciesRepository: repo, pub: pub, actor: actor}
}

func (s *eventStore) Create(ctx context.Context, author string, in domain.SpeciesInput) (*domain.Species, error) {
	created, err := s.SpeciesRepository.Create(ctx, author, in)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, Created, eventOf(created))
	return created, nil
}

func (s *eventStore) Update(ctx context.Context, id int64, in domain.SpeciesInput) (*domain.Species, error) {
	updated, err := s.SpeciesRepository.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	ev := Event{ID: id, ScientificName: in.ScientificName, Kingdom: in.Kingdom, Endangered: in.Endangered}
	if updated != nil {
		ev = eventOf(updated)
	}
	s.publish(ctx, Updated, ev)
	return updated, nil
}

func (s *eventStore) Delete(ctx context.Context, id int64) error {
	if err := s.SpeciesRepository.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, Deleted, Event{ID: id})
	return nil
}

func (s *eventStore) publish(ctx context.Context, event pubsub.Event[Event], payload Event) {
	if s.pub == nil {
		return
	}
	if err := pubsub.Publish(ctx, s.pub, event, s.actor, payload); err != nil {
		middleware.FromContext(ctx).Error("Failed to publish species event",
			"topic", event.Name(), "species_id", payload.ID, "error", err)
	}
}

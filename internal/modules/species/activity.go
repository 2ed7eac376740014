package species

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/biodex/internal/metrics"
	"github.com/nfrund/biodex/internal/pubsub"
)

// ActivitySubscriber logs species change events and counts them.
type ActivitySubscriber struct {
	sub     pubsub.Subscriber
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewActivitySubscriber(sub pubsub.Subscriber, m *metrics.Metrics) *ActivitySubscriber {
	return &ActivitySubscriber{
		sub:     sub,
		metrics: m,
		logger:  slog.Default().With("subscriber", "species-activity"),
	}
}

// Start subscribes to every species event. Handling continues until ctx is
// cancelled or the bus is closed.
func (s *ActivitySubscriber) Start(ctx context.Context) error {
	for _, ev := range []pubsub.Event[Event]{Created, Updated, Deleted} {
		if err := pubsub.Subscribe(ctx, s.sub, ev, s.handle); err != nil {
			return fmt.Errorf("subscribe to %s: %w", ev.Name(), err)
		}
	}
	return nil
}

func (s *ActivitySubscriber) handle(ctx context.Context, msg pubsub.Message, ev Event) error {
	s.logger.InfoContext(ctx, "Species changed",
		"topic", msg.Topic,
		"species_id", ev.ID,
		"scientific_name", ev.ScientificName,
		"user_id", msg.UserID,
	)
	if s.metrics != nil {
		s.metrics.SpeciesEvents.WithLabelValues(msg.Topic).Inc()
	}
	return nil
}

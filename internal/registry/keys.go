package registry

import (
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/metrics"
	"github.com/nfrund/biodex/internal/pubsub"
)

// Service keys shared between modules. Using constants prevents typos.
const (
	SpeciesRepositoryKey Key[domain.SpeciesRepository] = "species.repository"
	ProfileRepositoryKey Key[domain.ProfileRepository] = "profiles.repository"
	PublisherKey         Key[pubsub.Publisher]         = "pubsub.publisher"
	SubscriberKey        Key[pubsub.Subscriber]        = "pubsub.subscriber"
	MetricsKey           Key[*metrics.Metrics]         = "metrics"
)

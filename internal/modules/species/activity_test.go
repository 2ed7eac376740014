package species

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nfrund/biodex/internal/database/memory"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/metrics"
	"github.com/nfrund/biodex/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivitySubscriber_CountsEvents(t *testing.T) {
	bus := pubsub.NewWatermillBridge(nil)
	t.Cleanup(func() { _ = bus.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	require.NoError(t, NewActivitySubscriber(bus, m).Start(ctx))

	store := newEventStore(memory.NewSpeciesStore(), bus, alice.ID)
	created, err := store.Create(ctx, alice.ID, domain.SpeciesInput{ScientificName: "Amanita muscaria", Kingdom: domain.KingdomFungi})
	require.NoError(t, err)
	_, err = store.Update(ctx, created.ID, domain.SpeciesInput{ScientificName: "Amanita muscaria", Kingdom: domain.KingdomFungi, Endangered: true})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, created.ID))

	for _, topic := range []string{"species.created", "species.updated", "species.deleted"} {
		assert.Eventually(t, func() bool {
			return testutil.ToFloat64(m.SpeciesEvents.WithLabelValues(topic)) == 1
		}, 2*time.Second, 10*time.Millisecond, topic)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, pubsub.Message) error {
	return errors.New("bus closed")
}

func TestEventStore_PublishFailureDoesNotFailMutation(t *testing.T) {
	repo := memory.NewSpeciesStore()
	store := newEventStore(repo, failingPublisher{}, alice.ID)

	created, err := store.Create(context.Background(), alice.ID, domain.SpeciesInput{ScientificName: "Homo sapiens", Kingdom: domain.KingdomAnimalia})
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Homo sapiens", got.ScientificName)
}

func TestEventStore_NoEventOnFailedMutation(t *testing.T) {
	pub := &recordingPublisher{}
	store := newEventStore(memory.NewSpeciesStore(), pub, alice.ID)

	_, err := store.Update(context.Background(), 42, domain.SpeciesInput{ScientificName: "X y", Kingdom: domain.KingdomFungi})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, store.Delete(context.Background(), 42), domain.ErrNotFound)
	assert.Empty(t, pub.topics())
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/biodex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSpeciesStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewSpeciesStore()

	lion, err := store.Create(ctx, "user:alice", domain.SpeciesInput{ScientificName: "Panthera leo", Kingdom: domain.KingdomAnimalia})
	require.NoError(t, err)
	oak, err := store.Create(ctx, "user:bob", domain.SpeciesInput{ScientificName: "Quercus robur", Kingdom: domain.KingdomPlantae})
	require.NoError(t, err)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, oak.ID, list[0].ID)
	assert.Equal(t, lion.ID, list[1].ID)

	in := lion.Input()
	in.Endangered = true
	updated, err := store.Update(ctx, lion.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Endangered)
	assert.Equal(t, "user:alice", updated.Author)

	require.NoError(t, store.Delete(ctx, lion.ID))
	_, err = store.FindByID(ctx, lion.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Update(ctx, lion.ID, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, lion.ID), domain.ErrNotFound)
}

func TestSpeciesStore_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := NewSpeciesStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.Create(ctx, "user:alice", domain.SpeciesInput{ScientificName: fmt.Sprintf("Species %d", i), Kingdom: domain.KingdomFungi})
		}(i)
	}
	wg.Wait()

	list, err := store.List(ctx)
	require.NoError(t, err)
	seen := map[int64]bool{}
	for _, sp := range list {
		assert.False(t, seen[sp.ID])
		seen[sp.ID] = true
	}
	assert.Len(t, seen, 50)
}

func newUserStore(t *testing.T) *UserStore {
	t.Helper()
	s := NewUserStore(time.Hour)
	s.cost = bcrypt.MinCost
	return s
}

func TestUserStore_SignUpSignInSignOut(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t)

	user, sess, err := s.SignUp(ctx, domain.SignUpRequest{Email: " Alice@Example.com ", Password: "password1", DisplayName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Len(t, sess.Token, 64)

	_, _, err = s.SignUp(ctx, domain.SignUpRequest{Email: "alice@example.com", Password: "password2", DisplayName: "Other"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, _, err = s.SignIn(ctx, "alice@example.com", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = s.SignIn(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, sess2, err := s.SignIn(ctx, "ALICE@example.com", "password1")
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, sess2.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, s.SignOut(ctx, sess2.Token))
	_, err = s.Authenticate(ctx, sess2.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// The first session is unaffected.
	_, err = s.Authenticate(ctx, sess.Token)
	assert.NoError(t, err)
}

func TestUserStore_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t)
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, sess, err := s.SignUp(ctx, domain.SignUpRequest{Email: "a@example.com", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = s.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserStore_ListProfilesByIDDescending(t *testing.T) {
	ctx := context.Background()
	s := newUserStore(t)

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	bio := "Botanist"
	for _, name := range []string{"Ann", "Ben", "Cy"} {
		_, _, err := s.SignUp(ctx, domain.SignUpRequest{Email: name + "@example.com", Password: "password1", DisplayName: name, Biography: &bio})
		require.NoError(t, err)
	}

	profiles, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.True(t, sort.SliceIsSorted(profiles, func(i, j int) bool { return profiles[i].ID > profiles[j].ID }))
	for _, p := range profiles {
		assert.Equal(t, "Botanist", *p.Biography)
	}
}

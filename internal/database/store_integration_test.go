package database

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeciesStore_Integration(t *testing.T) {
	conn := setupTestConn(t)
	store, err := NewSpeciesStore(conn)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Create(ctx, "user:alice", domain.SpeciesInput{ScientificName: "Panthera leo", Kingdom: domain.KingdomAnimalia})
	require.NoError(t, err)
	second, err := store.Create(ctx, "user:bob", domain.SpeciesInput{ScientificName: "Quercus robur", Kingdom: domain.KingdomPlantae})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	in := first.Input()
	in.Endangered = true
	updated, err := store.Update(ctx, first.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Endangered)
	assert.Equal(t, "user:alice", updated.Author)

	require.NoError(t, store.Delete(ctx, first.ID))
	_, err = store.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, first.ID), domain.ErrNotFound)
}

func TestUserStore_Integration(t *testing.T) {
	conn := setupTestConn(t)
	users, err := NewUserStore(conn, time.Hour)
	require.NoError(t, err)
	profiles, err := NewProfileStore(conn)
	require.NoError(t, err)
	ctx := context.Background()

	req := testutils.NewSignUpRequest("Alice")
	email := req.Email
	user, sess, err := users.SignUp(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)

	_, _, err = users.SignUp(ctx, domain.SignUpRequest{Email: email, Password: "another one", DisplayName: "Alice 2"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, _, err = users.SignIn(ctx, email, "wrong password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, again, err := users.SignIn(ctx, email, testutils.TestPassword)
	require.NoError(t, err)

	authed, err := users.Authenticate(ctx, again.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	require.NoError(t, users.SignOut(ctx, again.Token))
	_, err = users.Authenticate(ctx, again.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	list, err := profiles.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, "Alice", list[0].DisplayName)
}

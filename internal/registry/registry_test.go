package registry

import (
	"testing"

	"github.com/nfrund/biodex/internal/database/memory"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SetGet(t *testing.T) {
	reg := New(nil)
	store := memory.NewSpeciesStore()

	_, ok := Get(reg, SpeciesRepositoryKey)
	assert.False(t, ok)

	Set[domain.SpeciesRepository](reg, SpeciesRepositoryKey, store)
	got, ok := Get(reg, SpeciesRepositoryKey)
	require.True(t, ok)
	assert.Same(t, store, got)
}

func TestRegistry_MustGetPanicsWhenMissing(t *testing.T) {
	reg := New(nil)
	assert.PanicsWithValue(t, "service not found for key: profiles.repository", func() {
		MustGet(reg, ProfileRepositoryKey)
	})
}

func TestRegistry_TypeMismatchIsNotFound(t *testing.T) {
	reg := New(nil)
	reg.services.Store("species.repository", "not a repository")
	_, ok := Get(reg, SpeciesRepositoryKey)
	assert.False(t, ok)
}

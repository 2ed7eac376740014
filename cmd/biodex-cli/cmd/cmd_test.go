package cmd

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	original := fs
	mem := afero.NewMemMapFs()
	fs = mem
	t.Cleanup(func() { fs = original })
	return mem
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "Biodex CLI v"+version+"\n", out)
}

func TestKingdoms(t *testing.T) {
	out, err := run(t, "kingdoms")
	require.NoError(t, err)
	assert.Contains(t, out, "Animalia\n")
	assert.Contains(t, out, "Plantae\n")
}

func TestSeed(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SESSION_SECRET", "a-very-secret-key-for-testing-!")
	mem := useMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "species.yaml", []byte(`
species:
  - scientific_name: Panthera leo
    kingdom: Animalia
  - scientific_name: Quercus robur
    kingdom: Plantae
`), 0o644))

	out, err := run(t, "seed", "--file", "species.yaml", "--author", "user:1")
	require.NoError(t, err)
	assert.Equal(t, "Created 2 species.\n", out)
}

func TestSeed_InvalidFileWritesNothing(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SESSION_SECRET", "a-very-secret-key-for-testing-!")
	mem := useMemFs(t)
	require.NoError(t, afero.WriteFile(mem, "species.yaml", []byte(`
species:
  - scientific_name: Panthera leo
    kingdom: Fungi-ish
`), 0o644))

	out, err := run(t, "seed", "--file", "species.yaml", "--author", "user:1")
	assert.ErrorContains(t, err, "entry 1")
	assert.Empty(t, out)
}

func TestSeed_RequiresFlags(t *testing.T) {
	_, err := run(t, "seed")
	assert.ErrorContains(t, err, "required flag")
}

// Package testutils holds helpers shared by tests across packages.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/biodex/internal/config"
	"github.com/stretchr/testify/require"
)

// SessionSecret is a valid secret for test configs.
const SessionSecret = "a-very-secret-key-for-testing-!"

// ConfigForTests loads .env.test from the project root when it exists and
// returns a config for the in-memory backend. Values from .env.test apply
// to everything except STORE_BACKEND.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	if root, ok := projectRoot(); ok {
		env, err := godotenv.Read(filepath.Join(root, ".env.test"))
		if err == nil {
			for key, value := range env {
				t.Setenv(key, value)
			}
		}
	}
	t.Setenv("STORE_BACKEND", config.BackendMemory)
	if os.Getenv("SESSION_SECRET") == "" {
		t.Setenv("SESSION_SECRET", SessionSecret)
	}
	t.Setenv("EMAIL_PROVIDER", "log")
	t.Setenv("SERVER_ADDR", "127.0.0.1:0")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	return cfg
}

// projectRoot walks up from the working directory to the go.mod.
func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}

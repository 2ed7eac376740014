package profiles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/rendering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	profiles []domain.Profile
	err      error
	calls    int
}

func (s *stubRepo) List(ctx context.Context) ([]domain.Profile, error) {
	s.calls++
	return s.profiles, s.err
}

func serve(t *testing.T, repo domain.ProfileRepository, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user != nil {
				c.Set(middleware.UserContextKey, user)
			}
			return next(c)
		}
	})
	e.Group("/profiles", middleware.RequireSession).GET("", NewHandler(repo).List)

	req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

var viewer = &domain.User{ID: "user:alice", Email: "alice@example.com", DisplayName: "Alice"}

func TestList(t *testing.T) {
	bio := "Field botanist."
	repo := &stubRepo{profiles: []domain.Profile{
		{ID: "user:b", DisplayName: "Bea", Email: "bea@example.com", Biography: &bio},
		{ID: "user:a", DisplayName: "Al", Email: "al@example.com"},
	}}

	rec := serve(t, repo, viewer)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, `class="card profile"`))
	assert.Contains(t, body, "Field botanist.")
	assert.Less(t, strings.Index(body, "Bea"), strings.Index(body, "Al<"))
	assert.NotContains(t, body, emptyMessage)
}

func TestList_EmptyState(t *testing.T) {
	rec := serve(t, &stubRepo{}, viewer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No profiles found.")
	assert.NotContains(t, rec.Body.String(), "<article")
}

func TestList_FetchFailure(t *testing.T) {
	rec := serve(t, &stubRepo{err: errors.New("connection refused")}, viewer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load profiles.")
	assert.NotContains(t, rec.Body.String(), "No profiles found.")
}

func TestList_RedirectsWithoutSession(t *testing.T) {
	repo := &stubRepo{}
	rec := serve(t, repo, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, repo.calls)
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	users map[string]*domain.User
	err   error
	calls int
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func newGuardedServer(auth Authenticator, fetches *int) *echo.Echo {
	e := echo.New()
	e.Use(LoadUser(auth))
	e.GET("/species", func(c echo.Context) error {
		*fetches++
		return c.String(http.StatusOK, "Welcome "+CurrentUser(c).Email)
	}, RequireSession)
	return e
}

func TestRequireSession(t *testing.T) {
	auth := &stubAuth{users: map[string]*domain.User{"good": {ID: "user:alice", Email: "alice@example.com"}}}

	t.Run("anonymous request is redirected before any fetch", func(t *testing.T) {
		fetches := 0
		e := newGuardedServer(auth, &fetches)
		req := httptest.NewRequest(http.MethodGet, "/species", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.Zero(t, fetches)
	})

	t.Run("htmx request gets HX-Redirect", func(t *testing.T) {
		fetches := 0
		e := newGuardedServer(auth, &fetches)
		req := httptest.NewRequest(http.MethodGet, "/species", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
		assert.Zero(t, fetches)
	})

	t.Run("invalid token is cleared and redirected", func(t *testing.T) {
		fetches := 0
		e := newGuardedServer(auth, &fetches)
		req := httptest.NewRequest(http.MethodGet, "/species", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "stale"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), AuthCookieName+"=;")
		assert.Zero(t, fetches)
	})

	t.Run("store failure is treated as anonymous", func(t *testing.T) {
		fetches := 0
		e := newGuardedServer(&stubAuth{err: errors.New("db down")}, &fetches)
		req := httptest.NewRequest(http.MethodGet, "/species", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Zero(t, fetches)
	})

	t.Run("valid session reaches the handler", func(t *testing.T) {
		fetches := 0
		e := newGuardedServer(auth, &fetches)
		req := httptest.NewRequest(http.MethodGet, "/species", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good"})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Welcome alice@example.com", rec.Body.String())
		assert.Equal(t, 1, fetches)
	})
}

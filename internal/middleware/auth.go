package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
)

const (
	// UserContextKey is where the authenticated *domain.User is stored.
	UserContextKey = "user"
	// AuthCookieName holds the opaque session token.
	AuthCookieName = "auth_token"
)

// Authenticator resolves a session token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// LoadUser puts the session user, if any, into the context. Requests
// without a valid session pass through anonymously.
func LoadUser(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			user, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil || user == nil {
				if err != nil && !errors.Is(err, domain.ErrInvalidCredentials) {
					FromContext(c.Request().Context()).Error("Session lookup failed", "error", err)
				}
				ClearAuthCookie(c)
				return next(c)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// RequireSession redirects to "/" unless LoadUser found a session user.
// The redirect happens before the wrapped handler runs, so no data is
// fetched for anonymous requests.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			if c.Request().Header.Get("HX-Request") == "true" {
				c.Response().Header().Set("HX-Redirect", "/")
				return c.NoContent(http.StatusUnauthorized)
			}
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return next(c)
	}
}

// CurrentUser returns the session user or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserContextKey).(*domain.User)
	return user
}

// SetAuthCookie stores the session token in an HttpOnly cookie.
func SetAuthCookie(c echo.Context, sess *domain.Session) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

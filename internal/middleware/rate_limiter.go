package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/biodex/internal/view"
	"golang.org/x/time/rate"
)

// AuthAttemptsPerMinute is the sustained rate allowed per client and route.
const AuthAttemptsPerMinute = 10

const rateLimitedMessage = "Too many attempts. Please wait a minute and try again."

// RateLimiter throttles the sign-in and sign-up forms per client IP and
// route, so a burst of sign-ups does not lock a user out of signing in.
// Throttled form posts go back to "/" with an error flash. Other requests
// get a plain 429.
func RateLimiter() echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(time.Minute / AuthAttemptsPerMinute),
			Burst:     AuthAttemptsPerMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP() + " " + c.Path(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "client", identifier)
			if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationForm) {
				view.SetFlashError(c, rateLimitedMessage)
				return c.Redirect(http.StatusSeeOther, "/")
			}
			return c.String(http.StatusTooManyRequests, rateLimitedMessage)
		},
	}
	return middleware.RateLimiterWithConfig(config)
}

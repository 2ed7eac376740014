package view

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// Reload asks the client to reload the current route's data. htmx requests
// get an HX-Refresh header. Plain form posts are redirected to location.
func Reload(c echo.Context, location string) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Refresh", "true")
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, location)
}

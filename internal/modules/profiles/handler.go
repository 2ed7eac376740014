package profiles

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/view"
)

// Handler handles requests for the profile list.
type Handler struct {
	repo domain.ProfileRepository
}

func NewHandler(repo domain.ProfileRepository) *Handler {
	return &Handler{repo: repo}
}

// List renders every profile, newest first.
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	profiles, err := h.repo.List(ctx)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to list profiles", "error", err)
	}

	page := view.Page(view.PageProps{
		Title:   view.Heading("profiles"),
		User:    middleware.CurrentUser(c),
		Flashes: view.GetFlashData(c),
	}, listBody(profiles, err != nil))
	return c.Render(http.StatusOK, "", page)
}

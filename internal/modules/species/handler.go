package species

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/editor"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/pubsub"
	"github.com/nfrund/biodex/internal/view"
	g "maragu.dev/gomponents"
)

// Handler serves the species list and drives one editor per card.
type Handler struct {
	repo domain.SpeciesRepository
	pub  pubsub.Publisher
}

// NewHandler creates a species handler. pub may be nil, in which case no
// change events are published.
func NewHandler(repo domain.SpeciesRepository, pub pubsub.Publisher) *Handler {
	return &Handler{repo: repo, pub: pub}
}

func (h *Handler) routes(group *echo.Group) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Show)
	group.GET("/:id/edit", h.Edit)
	group.POST("/:id", h.Submit)
	group.POST("/:id/cancel", h.Cancel)
	group.POST("/:id/cancel/resolve", h.ResolveCancel)
	group.POST("/:id/delete", h.Delete)
	group.POST("/:id/delete/resolve", h.ResolveDelete)
}

// List renders every species, newest first, with the add form.
func (h *Handler) List(c echo.Context) error {
	return h.renderList(c, http.StatusOK, domain.SpeciesForm{}, nil, nil)
}

// Create validates the add form and stores a new species authored by the
// session user.
func (h *Handler) Create(c echo.Context) error {
	form, err := bindForm(c)
	if err != nil {
		return err
	}

	in, ferrs := domain.ParseSpeciesForm(form)
	if ferrs != nil {
		return h.respondAddForm(c, form, ferrs, nil)
	}

	ctx := c.Request().Context()
	userID := viewerID(c)
	notes := view.NewRequestNotifier(c)
	created, err := newEventStore(h.repo, h.pub, userID).Create(ctx, userID, in)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to create species", "error", err)
		notes.Notify(domain.Notification{
			Title:       "Could not add species.",
			Description: err.Error(),
			Severity:    domain.SeverityError,
		})
		return h.respondAddForm(c, form, nil, notes.Errors())
	}

	notes.Notify(domain.Notification{
		Title:       "Species added.",
		Description: fmt.Sprintf("%s was added.", created.ScientificName),
		Severity:    domain.SeveritySuccess,
	})
	return view.Reload(c, listPath)
}

// Show renders one card in the Viewing state.
func (h *Handler) Show(c echo.Context) error {
	r, err := h.open(c)
	if err != nil {
		return err
	}
	return r.respond(c)
}

// Edit renders one card in the Editing state.
func (h *Handler) Edit(c echo.Context) error {
	r, err := h.open(c)
	if err != nil {
		return err
	}
	if err := r.ed.BeginEdit(); err != nil {
		return editorError(err)
	}
	return r.respond(c)
}

// Submit validates the edit form and updates the record.
func (h *Handler) Submit(c echo.Context) error {
	r, form, err := h.openWithDraft(c, editor.Editing)
	if err != nil {
		return err
	}

	err = r.ed.Submit(c.Request().Context(), form)
	if r.reloaded {
		return view.Reload(c, listPath)
	}
	if err := r.recoverable(c, err, "Failed to update species"); err != nil {
		return err
	}
	return r.respond(c)
}

// Cancel shows the discard prompt, carrying the draft along.
func (h *Handler) Cancel(c echo.Context) error {
	r, form, err := h.openWithDraft(c, editor.Editing)
	if err != nil {
		return err
	}
	if err := r.ed.RequestCancel(form); err != nil {
		return editorError(err)
	}
	return r.respond(c)
}

// ResolveCancel answers the discard prompt.
func (h *Handler) ResolveCancel(c echo.Context) error {
	r, _, err := h.openWithDraft(c, editor.ConfirmingCancel)
	if err != nil {
		return err
	}
	if err := r.ed.ResolveCancel(confirmed(c)); err != nil {
		return editorError(err)
	}
	return r.respond(c)
}

// Delete shows the delete prompt.
func (h *Handler) Delete(c echo.Context) error {
	r, err := h.open(c)
	if err != nil {
		return err
	}
	if err := r.ed.RequestDelete(); err != nil {
		return editorError(err)
	}
	return r.respond(c)
}

// ResolveDelete answers the delete prompt.
func (h *Handler) ResolveDelete(c echo.Context) error {
	r, err := h.open(c)
	if err != nil {
		return err
	}
	if err := r.ed.Resume(editor.ConfirmingDelete, domain.SpeciesForm{}); err != nil {
		return editorError(err)
	}

	err = r.ed.ResolveDelete(c.Request().Context(), confirmed(c))
	if r.reloaded {
		return view.Reload(c, listPath)
	}
	if err := r.recoverable(c, err, "Failed to delete species"); err != nil {
		return err
	}
	return r.respond(c)
}

// cardRequest is the per-request editor for one card.
type cardRequest struct {
	ed       *editor.Editor
	notes    *view.RequestNotifier
	reloaded bool
}

func (h *Handler) open(c echo.Context) (*cardRequest, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, echo.NewHTTPError(http.StatusNotFound, "species not found")
	}

	ctx := c.Request().Context()
	record, err := h.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "species not found").SetInternal(err)
		}
		return nil, fmt.Errorf("find species %d: %w", id, err)
	}

	userID := viewerID(c)
	r := &cardRequest{notes: view.NewRequestNotifier(c)}
	r.ed = editor.New(*record, userID, newEventStore(h.repo, h.pub, userID), r.notes, func() { r.reloaded = true })
	return r, nil
}

// openWithDraft opens the card and resumes state with the draft posted in
// the request body.
func (h *Handler) openWithDraft(c echo.Context, state editor.State) (*cardRequest, domain.SpeciesForm, error) {
	form, err := bindForm(c)
	if err != nil {
		return nil, form, err
	}
	r, err := h.open(c)
	if err != nil {
		return nil, form, err
	}
	if err := r.ed.Resume(state, form); err != nil {
		return nil, form, editorError(err)
	}
	return r, form, nil
}

// recoverable returns nil when err leaves the card renderable: a validation
// failure or a store error that was already turned into a notification.
func (r *cardRequest) recoverable(c echo.Context, err error, msg string) error {
	if err == nil {
		return nil
	}
	var ferrs domain.FieldErrors
	if errors.As(err, &ferrs) {
		return nil
	}
	if len(r.notes.Errors()) > 0 {
		middleware.FromContext(c.Request().Context()).Warn(msg,
			"species_id", r.ed.Record().ID, "error", err)
		return nil
	}
	return editorError(err)
}

// respond writes the card. htmx requests get the fragment with any error
// toasts out of band. Other requests get the card inside a full page.
func (r *cardRequest) respond(c echo.Context) error {
	return respond(c, cardFor(r.ed), r.notes.Errors())
}

func respond(c echo.Context, fragment g.Node, errs []domain.Notification) error {
	if view.IsHTMX(c) {
		nodes := g.Group{fragment}
		if toasts := view.OOBToasts(c.Request().Context(), errs); toasts != nil {
			nodes = append(nodes, toasts)
		}
		return c.Render(http.StatusOK, "", nodes)
	}
	return c.Render(http.StatusOK, "", view.Page(pageProps(c, errs), fragment))
}

func (h *Handler) respondAddForm(c echo.Context, form domain.SpeciesForm, ferrs domain.FieldErrors, errs []domain.Notification) error {
	if view.IsHTMX(c) {
		return respond(c, addForm(form, ferrs), errs)
	}
	status := http.StatusOK
	if ferrs != nil {
		status = http.StatusUnprocessableEntity
	}
	return h.renderList(c, status, form, ferrs, errs)
}

func (h *Handler) renderList(c echo.Context, status int, form domain.SpeciesForm, ferrs domain.FieldErrors, errs []domain.Notification) error {
	ctx := c.Request().Context()
	records, err := h.repo.List(ctx)
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to list species", "error", err)
	}
	body := listBody(records, viewerID(c), err != nil, form, ferrs)
	return c.Render(status, "", view.Page(pageProps(c, errs), body))
}

func pageProps(c echo.Context, errs []domain.Notification) view.PageProps {
	flashes := view.GetFlashData(c)
	for _, n := range errs {
		flashes.Error = append(flashes.Error, view.NotificationText(n))
	}
	return view.PageProps{
		Title:   view.Heading("species"),
		User:    middleware.CurrentUser(c),
		Flashes: flashes,
	}
}

func bindForm(c echo.Context) (domain.SpeciesForm, error) {
	var form domain.SpeciesForm
	if err := c.Bind(&form); err != nil {
		return form, echo.NewHTTPError(http.StatusBadRequest, "invalid species form").SetInternal(err)
	}
	return form, nil
}

func confirmed(c echo.Context) bool {
	return c.FormValue("answer") == "yes"
}

func viewerID(c echo.Context) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}

func editorError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotAuthor):
		return echo.NewHTTPError(http.StatusForbidden, "only the author can change this species").SetInternal(err)
	case errors.Is(err, editor.ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, "that action is not available right now").SetInternal(err)
	}
	return err
}

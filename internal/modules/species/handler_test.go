package species

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/database/memory"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/pubsub"
	"github.com/nfrund/biodex/internal/rendering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

var (
	alice = &domain.User{ID: "user:alice", Email: "alice@example.com", DisplayName: "Alice"}
	bob   = &domain.User{ID: "user:bob", Email: "bob@example.com", DisplayName: "Bob"}
)

// faultyRepo wraps the memory store and can fail individual operations.
type faultyRepo struct {
	*memory.SpeciesStore
	listErr   error
	updateErr error
	deleteErr error
	lists     int
}

func (r *faultyRepo) List(ctx context.Context) ([]domain.Species, error) {
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.SpeciesStore.List(ctx)
}

func (r *faultyRepo) Update(ctx context.Context, id int64, in domain.SpeciesInput) (*domain.Species, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return r.SpeciesStore.Update(ctx, id, in)
}

func (r *faultyRepo) Delete(ctx context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.SpeciesStore.Delete(ctx, id)
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []pubsub.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Topic
	}
	return out
}

type testApp struct {
	e    *echo.Echo
	repo *faultyRepo
	pub  *recordingPublisher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	app := &testApp{
		e:    echo.New(),
		repo: &faultyRepo{SpeciesStore: memory.NewSpeciesStore()},
		pub:  &recordingPublisher{},
	}
	app.e.Renderer = rendering.NewUniversalRenderer()
	app.e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	app.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Header.Get("X-Test-User") {
			case "alice":
				c.Set(middleware.UserContextKey, alice)
			case "bob":
				c.Set(middleware.UserContextKey, bob)
			}
			return next(c)
		}
	})
	NewHandler(app.repo, app.pub).routes(app.e.Group("/species", middleware.RequireSession))
	return app
}

func (a *testApp) seedLion(t *testing.T) *domain.Species {
	t.Helper()
	lion, err := a.repo.SpeciesStore.Create(context.Background(), alice.ID, domain.SpeciesInput{
		ScientificName: "Panthera leo",
		Kingdom:        domain.KingdomAnimalia,
	})
	require.NoError(t, err)
	return lion
}

type request struct {
	method  string
	path    string
	user    string
	form    url.Values
	htmx    bool
	cookies []*http.Cookie
}

func (a *testApp) do(r request) *httptest.ResponseRecorder {
	var body *strings.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	if r.user != "" {
		req.Header.Set("X-Test-User", r.user)
	}
	if r.htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func lionForm(edit func(url.Values)) url.Values {
	form := url.Values{
		"scientific_name":  {"Panthera leo"},
		"common_name":      {""},
		"kingdom":          {"Animalia"},
		"total_population": {""},
		"image":            {""},
		"description":      {""},
	}
	if edit != nil {
		edit(form)
	}
	return form
}

func TestList_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{method: http.MethodGet, path: "/species"})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Zero(t, app.repo.lists, "no fetch happens before the redirect")

	rec = app.do(request{method: http.MethodGet, path: "/species", htmx: true})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))
}

func TestList_EmptyState(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(request{method: http.MethodGet, path: "/species", user: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No species found.")
	assert.NotContains(t, rec.Body.String(), "<article")
	assert.NotContains(t, rec.Body.String(), "Could not load species.")
}

func TestList_FetchFailureIsNotEmptyState(t *testing.T) {
	app := newTestApp(t)
	app.repo.listErr = errors.New("connection refused")

	rec := app.do(request{method: http.MethodGet, path: "/species", user: "alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load species.")
	assert.NotContains(t, rec.Body.String(), "No species found.")
}

func TestList_NewestFirst(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)
	_, err := app.repo.SpeciesStore.Create(context.Background(), bob.ID, domain.SpeciesInput{
		ScientificName: "Quercus robur",
		Kingdom:        domain.KingdomPlantae,
	})
	require.NoError(t, err)

	body := app.do(request{method: http.MethodGet, path: "/species", user: "alice"}).Body.String()
	first := strings.Index(body, `id="species-2"`)
	second := strings.Index(body, `id="species-1"`)
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestPantheraLeoBecomesEndangered(t *testing.T) {
	app := newTestApp(t)
	lion := app.seedLion(t)

	card := app.do(request{method: http.MethodGet, path: "/species/1", user: "alice", htmx: true})
	require.Equal(t, http.StatusOK, card.Code)
	assert.NotContains(t, card.Body.String(), "Endangered")

	edit := app.do(request{method: http.MethodGet, path: "/species/1/edit", user: "alice", htmx: true})
	require.Equal(t, http.StatusOK, edit.Code)
	assert.Contains(t, edit.Body.String(), `value="Panthera leo"`)

	rec := app.do(request{
		method: http.MethodPost, path: "/species/1", user: "alice", htmx: true,
		form: lionForm(func(f url.Values) { f.Set("endangered", "on") }),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))

	saved, err := app.repo.FindByID(context.Background(), lion.ID)
	require.NoError(t, err)
	assert.True(t, saved.Endangered)
	assert.Nil(t, saved.CommonName, "blank optional fields are stored as absent")
	assert.Nil(t, saved.Description)

	require.Equal(t, []string{"species.updated"}, app.pub.topics())
	ev, err := Updated.Decode(app.pub.msgs[0])
	require.NoError(t, err)
	assert.True(t, ev.Endangered)
	assert.Equal(t, alice.ID, app.pub.msgs[0].UserID)

	page := app.do(request{method: http.MethodGet, path: "/species", user: "alice", cookies: rec.Result().Cookies()})
	assert.Contains(t, page.Body.String(), "Species updated.")

	card = app.do(request{method: http.MethodGet, path: "/species/1", user: "alice", htmx: true})
	assert.Contains(t, card.Body.String(), "Endangered")
}

func TestSubmit_PlainFormRedirects(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)

	rec := app.do(request{
		method: http.MethodPost, path: "/species/1", user: "alice",
		form: lionForm(func(f url.Values) { f.Set("common_name", "Lion") }),
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/species", rec.Header().Get(echo.HeaderLocation))
}

func TestSubmit_ValidationErrorSendsNothing(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)

	rec := app.do(request{
		method: http.MethodPost, path: "/species/1", user: "alice", htmx: true,
		form: lionForm(func(f url.Values) {
			f.Set("kingdom", "Chromista")
			f.Set("total_population", "0")
		}),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Refresh"))
	assert.Contains(t, rec.Body.String(), "Kingdom must be one of")
	assert.Contains(t, rec.Body.String(), "Total population must be a positive integer.")
	assert.Empty(t, app.pub.topics())

	saved, err := app.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.KingdomAnimalia, saved.Kingdom)
}

func TestSubmit_StoreFailureKeepsDraft(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)
	app.repo.updateErr = errors.New("permission denied for table species")

	rec := app.do(request{
		method: http.MethodPost, path: "/species/1", user: "alice", htmx: true,
		form: lionForm(func(f url.Values) { f.Set("common_name", "Lion") }),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Lion"`)
	assert.Contains(t, body, "permission denied for table species")
	assert.Contains(t, body, `hx-swap-oob="beforeend"`)
	assert.Empty(t, rec.Header().Get("HX-Refresh"))
}

func TestNonAuthorHasNoActions(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)

	page := app.do(request{method: http.MethodGet, path: "/species", user: "bob"}).Body.String()
	assert.Contains(t, page, `id="species-1"`)
	assert.NotContains(t, page, "/species/1/edit")
	assert.NotContains(t, page, "/species/1/delete")

	mine := app.do(request{method: http.MethodGet, path: "/species", user: "alice"}).Body.String()
	assert.Contains(t, mine, "/species/1/edit")
	assert.Contains(t, mine, "/species/1/delete")
}

func TestNonAuthorMutationsAreForbidden(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)

	tests := []struct {
		name   string
		method string
		path   string
		form   url.Values
	}{
		{"edit", http.MethodGet, "/species/1/edit", nil},
		{"submit", http.MethodPost, "/species/1", lionForm(func(f url.Values) { f.Set("endangered", "on") })},
		{"cancel", http.MethodPost, "/species/1/cancel", lionForm(nil)},
		{"resolve cancel", http.MethodPost, "/species/1/cancel/resolve", lionForm(func(f url.Values) { f.Set("answer", "yes") })},
		{"delete", http.MethodPost, "/species/1/delete", nil},
		{"resolve delete", http.MethodPost, "/species/1/delete/resolve", url.Values{"answer": {"yes"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(request{method: tt.method, path: tt.path, user: "bob", form: tt.form, htmx: true})
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}

	saved, err := app.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, saved.Endangered)
	assert.Empty(t, app.pub.topics())
}

func TestCancelFlow(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)
	draft := lionForm(func(f url.Values) { f.Set("scientific_name", "Panthera tigris") })

	prompt := app.do(request{method: http.MethodPost, path: "/species/1/cancel", user: "alice", htmx: true, form: draft})
	require.Equal(t, http.StatusOK, prompt.Code)
	assert.Contains(t, prompt.Body.String(), "Discard your changes?")
	assert.Contains(t, prompt.Body.String(), `<input type="hidden" name="scientific_name" value="Panthera tigris">`)
	assert.Contains(t, prompt.Body.String(), `/species/1/cancel/resolve`)

	t.Run("no keeps the draft", func(t *testing.T) {
		form := lionForm(func(f url.Values) {
			f.Set("scientific_name", "Panthera tigris")
			f.Set("answer", "no")
		})
		rec := app.do(request{method: http.MethodPost, path: "/species/1/cancel/resolve", user: "alice", htmx: true, form: form})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="Panthera tigris"`)
		assert.Contains(t, rec.Body.String(), "Save")
	})

	t.Run("yes restores the baseline", func(t *testing.T) {
		form := lionForm(func(f url.Values) {
			f.Set("scientific_name", "Panthera tigris")
			f.Set("answer", "yes")
		})
		rec := app.do(request{method: http.MethodPost, path: "/species/1/cancel/resolve", user: "alice", htmx: true, form: form})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Panthera leo")
		assert.NotContains(t, rec.Body.String(), "Panthera tigris")
	})

	saved, err := app.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Panthera leo", saved.ScientificName)
	assert.Empty(t, app.pub.topics())
}

func TestDeleteFlow(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)

	prompt := app.do(request{method: http.MethodPost, path: "/species/1/delete", user: "alice"})
	require.Equal(t, http.StatusOK, prompt.Code)
	assert.Contains(t, prompt.Body.String(), "Delete Panthera leo?")

	refused := app.do(request{method: http.MethodPost, path: "/species/1/delete/resolve", user: "alice", htmx: true,
		form: url.Values{"answer": {"no"}}})
	require.Equal(t, http.StatusOK, refused.Code)
	assert.Contains(t, refused.Body.String(), "/species/1/edit")
	_, err := app.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)

	rec := app.do(request{method: http.MethodPost, path: "/species/1/delete/resolve", user: "alice",
		form: url.Values{"answer": {"yes"}}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/species", rec.Header().Get(echo.HeaderLocation))

	_, err = app.repo.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"species.deleted"}, app.pub.topics())

	page := app.do(request{method: http.MethodGet, path: "/species", user: "alice", cookies: rec.Result().Cookies()})
	assert.Contains(t, page.Body.String(), "No species found.")
	assert.Contains(t, page.Body.String(), "Species deleted.")
}

func TestDelete_FailureKeepsRecord(t *testing.T) {
	app := newTestApp(t)
	app.seedLion(t)
	app.repo.deleteErr = errors.New("network unreachable")

	rec := app.do(request{method: http.MethodPost, path: "/species/1/delete/resolve", user: "alice", htmx: true,
		form: url.Values{"answer": {"yes"}}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not delete species.")
	assert.Contains(t, rec.Body.String(), `id="species-1"`)

	_, err := app.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, app.pub.topics())
}

func TestCreate(t *testing.T) {
	t.Run("valid form creates a record owned by the session user", func(t *testing.T) {
		app := newTestApp(t)
		form := lionForm(func(f url.Values) {
			f.Set("common_name", "  Lion ")
			f.Set("total_population", "20000")
		})

		rec := app.do(request{method: http.MethodPost, path: "/species", user: "alice", htmx: true, form: form})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))

		all, err := app.repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, alice.ID, all[0].Author)
		require.NotNil(t, all[0].CommonName)
		assert.Equal(t, "Lion", *all[0].CommonName)
		assert.Nil(t, all[0].Image)
		assert.Equal(t, []string{"species.created"}, app.pub.topics())
	})

	t.Run("invalid htmx form re-renders the add form", func(t *testing.T) {
		app := newTestApp(t)
		form := lionForm(func(f url.Values) { f.Set("image", "not a url") })

		rec := app.do(request{method: http.MethodPost, path: "/species", user: "alice", htmx: true, form: form})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `id="species-new"`)
		assert.Contains(t, rec.Body.String(), "Image must be a valid URL.")
		assert.Empty(t, app.pub.topics())
	})

	t.Run("invalid plain form renders the page with 422", func(t *testing.T) {
		app := newTestApp(t)
		form := lionForm(func(f url.Values) { f.Set("scientific_name", "   ") })

		rec := app.do(request{method: http.MethodPost, path: "/species", user: "alice", form: form})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Scientific name is required.")
		assert.Contains(t, rec.Body.String(), "No species found.")
	})
}

func TestShow_NotFound(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/species/99", "/species/abc", "/species/0"} {
		rec := app.do(request{method: http.MethodGet, path: path, user: "alice"})
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/view"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// HomeHandler handles requests for the home page.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet shows the sign-in and sign-up forms, or links to the lists when
// a session exists.
func (hh *HomeHandler) HomeGet(c echo.Context) error {
	user := middleware.CurrentUser(c)
	prefill := view.GetFlashEmail(c)

	page := view.Page(view.PageProps{
		Title:   "Home",
		User:    user,
		Flashes: view.GetFlashData(c),
	}, homeBody(user, prefill))
	return c.Render(http.StatusOK, "", page)
}

func homeBody(user *domain.User, email string) g.Node {
	if user != nil {
		return g.Group{
			h.H1(g.Textf("Welcome back, %s", user.DisplayName)),
			h.Ul(h.Class("links"),
				h.Li(h.A(h.Href("/species"), g.Text("Browse species"))),
				h.Li(h.A(h.Href("/profiles"), g.Text("Browse profiles"))),
			),
		}
	}
	return g.Group{
		h.H1(g.Text("Biodex")),
		h.Div(h.Class("auth-forms"),
			h.Form(h.Class("card"), h.ID("login-form"), h.Method("post"), h.Action("/login"),
				h.H2(g.Text("Sign in")),
				input("login-email", "email", "Email", "email", email, h.Required()),
				input("login-password", "password", "Password", "password", "", h.Required()),
				h.Button(h.Type("submit"), h.Class("button primary"), g.Text("Sign in")),
			),
			h.Form(h.Class("card"), h.ID("signup-form"), h.Method("post"), h.Action("/signup"),
				h.H2(g.Text("Create an account")),
				input("signup-name", "display_name", "Display name", "text", "", h.Required()),
				input("signup-email", "email", "Email", "email", email, h.Required()),
				input("signup-password", "password", "Password", "password", "", h.Required(), g.Attr("minlength", "8")),
				input("signup-confirm", "password_confirm", "Confirm password", "password", "", h.Required()),
				h.Div(h.Class("field"),
					h.Label(h.For("signup-bio"), g.Text("Biography")),
					h.Textarea(h.ID("signup-bio"), h.Name("biography"), g.Attr("maxlength", "2000")),
				),
				h.Button(h.Type("submit"), h.Class("button primary"), g.Text("Sign up")),
			),
		),
	}
}

func input(id, name, label, typ, value string, attrs ...g.Node) g.Node {
	return h.Div(h.Class("field"),
		h.Label(h.For(id), g.Text(label)),
		h.Input(h.ID(id), h.Name(name), h.Type(typ), g.If(value != "", h.Value(value)), g.Group(attrs)),
	)
}

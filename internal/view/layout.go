package view

import (
	"github.com/nfrund/biodex/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

const appName = "Biodex"

var titleCaser = cases.Title(language.English)

// Heading title-cases a resource name for display, e.g. "species" -> "Species".
func Heading(resource string) string {
	return titleCaser.String(resource)
}

// PageTitle builds the document title.
func PageTitle(title string) string {
	if title != "" {
		return title + " - " + appName
	}
	return appName
}

// PageProps are the inputs to Page.
type PageProps struct {
	Title   string
	User    *domain.User
	Flashes FlashData
}

// Page wraps body in the document shell shared by every full page.
func Page(p PageProps, body ...g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    PageTitle(p.Title),
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("htmx-config"), h.Content(`{"refreshOnHistoryMiss":true}`)),
			h.Link(h.Rel("stylesheet"), h.Href("/static/css/app.css")),
			h.Script(h.Src("https://unpkg.com/htmx.org@2.0.4"), h.Defer()),
		},
		Body: []g.Node{
			hx.Boost("true"),
			nav(p.User),
			ToastRegion(p.Flashes),
			h.Main(h.Class("container"), g.Group(body)),
		},
	})
}

func nav(user *domain.User) g.Node {
	return h.Nav(h.Class("nav"),
		h.A(h.Href("/"), h.Class("brand"), g.Text(appName)),
		g.If(user != nil, g.Group{
			h.A(h.Href("/profiles"), g.Text(Heading("profiles"))),
			h.A(h.Href("/species"), g.Text(Heading("species"))),
			h.Form(h.Method("post"), h.Action("/logout"), h.Class("inline"),
				h.Button(h.Type("submit"), g.Textf("Sign out %s", displayName(user))),
			),
		}),
	)
}

func displayName(user *domain.User) string {
	if user == nil {
		return ""
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Email
}

// FieldError renders a field's validation message, or nothing.
func FieldError(errs domain.FieldErrors, field string) g.Node {
	msg, ok := errs[field]
	if !ok {
		return nil
	}
	return h.P(h.Class("field-error"), h.ID(field+"-error"), g.Text(msg))
}

// Notice renders a standalone message block, such as an empty state.
func Notice(class, msg string) g.Node {
	return h.P(h.Class("notice "+class), g.Text(msg))
}

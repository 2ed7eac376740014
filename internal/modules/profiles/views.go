package profiles

import (
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/view"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const (
	emptyMessage = "No profiles found."
	loadFailed   = "Could not load profiles."
)

func listBody(profiles []domain.Profile, loadErr bool) g.Node {
	return g.Group{
		h.H1(g.Text(view.Heading("profiles"))),
		h.Section(h.Class("cards"), h.ID("profile-list"), profileList(profiles, loadErr)),
	}
}

func profileList(profiles []domain.Profile, loadErr bool) g.Node {
	if loadErr {
		return view.Notice("notice-error", loadFailed)
	}
	if len(profiles) == 0 {
		return view.Notice("notice-empty", emptyMessage)
	}
	return g.Map(profiles, profileCard)
}

func profileCard(p domain.Profile) g.Node {
	return h.Article(h.Class("card profile"),
		h.H2(g.Text(p.DisplayName)),
		h.P(h.Class("email"), h.A(h.Href("mailto:"+p.Email), g.Text(p.Email))),
		g.Iff(p.Biography != nil, func() g.Node {
			return h.P(h.Class("biography"), g.Text(*p.Biography))
		}),
	)
}

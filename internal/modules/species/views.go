package species

import (
	"fmt"
	"strconv"

	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/editor"
	"github.com/nfrund/biodex/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

const (
	listPath     = "/species"
	emptyMessage = "No species found."
	loadFailed   = "Could not load species."
	newFormID    = "species-new"
)

func cardID(id int64) string { return fmt.Sprintf("species-%d", id) }

func itemPath(id int64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", listPath, id, suffix)
}

// listBody is the main content of the species page.
func listBody(records []domain.Species, viewerID string, loadErr bool, form domain.SpeciesForm, errs domain.FieldErrors) g.Node {
	return g.Group{
		h.H1(g.Text(view.Heading("species"))),
		addForm(form, errs),
		h.Section(h.Class("cards"), h.ID("species-list"),
			speciesList(records, viewerID, loadErr),
		),
	}
}

func speciesList(records []domain.Species, viewerID string, loadErr bool) g.Node {
	if loadErr {
		return view.Notice("notice-error", loadFailed)
	}
	if len(records) == 0 {
		return view.Notice("notice-empty", emptyMessage)
	}
	return g.Map(records, func(s domain.Species) g.Node {
		return viewCard(s, s.IsAuthor(viewerID))
	})
}

// cardFor renders the card for the editor's current state.
func cardFor(e *editor.Editor) g.Node {
	switch e.State() {
	case editor.Editing:
		return editCard(e.Record(), e.Draft(), e.Errors())
	case editor.ConfirmingCancel:
		return confirmCancelCard(e.Record(), e.Draft())
	case editor.ConfirmingDelete:
		return confirmDeleteCard(e.Record())
	case editor.Deleted:
		return g.Text("")
	}
	return viewCard(e.Record(), e.CanEdit())
}

func viewCard(s domain.Species, canEdit bool) g.Node {
	id := cardID(s.ID)
	return h.Article(h.Class("card"), h.ID(id),
		h.Header(
			h.H2(h.Class("scientific-name"), g.Text(s.ScientificName)),
			g.If(s.CommonName != nil, h.P(h.Class("common-name"), g.Text(deref(s.CommonName)))),
			g.If(s.Endangered, h.Span(h.Class("badge badge-danger"), g.Text("Endangered"))),
		),
		g.If(s.Image != nil, h.Img(h.Src(deref(s.Image)), h.Alt(s.ScientificName), g.Attr("loading", "lazy"))),
		h.Dl(
			h.Dt(g.Text("Kingdom")), h.Dd(g.Text(string(s.Kingdom))),
			g.If(s.TotalPopulation != nil, g.Group{
				h.Dt(g.Text("Population")),
				h.Dd(g.Text(population(s.TotalPopulation))),
			}),
		),
		g.If(s.Description != nil, h.P(h.Class("description"), g.Text(deref(s.Description)))),
		g.If(canEdit, h.Footer(h.Class("actions"),
			h.A(h.Href(itemPath(s.ID, "/edit")), h.Class("button"),
				hx.Get(itemPath(s.ID, "/edit")), hx.Target("#"+id), hx.Swap("outerHTML"),
				g.Text("Edit"),
			),
			h.Form(h.Method("post"), h.Action(itemPath(s.ID, "/delete")), h.Class("inline"),
				hx.Post(itemPath(s.ID, "/delete")), hx.Target("#"+id), hx.Swap("outerHTML"),
				h.Button(h.Type("submit"), h.Class("button danger"), g.Text("Delete")),
			),
		)),
	)
}

func editCard(s domain.Species, draft domain.SpeciesForm, errs domain.FieldErrors) g.Node {
	id := cardID(s.ID)
	return h.Article(h.Class("card editing"), h.ID(id),
		h.Form(h.Method("post"), h.Action(itemPath(s.ID, "")),
			hx.Post(itemPath(s.ID, "")), hx.Target("#"+id), hx.Swap("outerHTML"),
			speciesFields(id, draft, errs),
			h.Div(h.Class("actions"),
				h.Button(h.Type("submit"), h.Class("button primary"), g.Text("Save")),
				h.Button(h.Type("submit"), h.Class("button"),
					g.Attr("formaction", itemPath(s.ID, "/cancel")),
					hx.Post(itemPath(s.ID, "/cancel")), hx.Target("#"+id), hx.Swap("outerHTML"),
					g.Text("Cancel"),
				),
			),
		),
	)
}

func confirmCancelCard(s domain.Species, draft domain.SpeciesForm) g.Node {
	return confirmCard(s, "Discard your changes?", "/cancel/resolve", hiddenDraft(draft))
}

func confirmDeleteCard(s domain.Species) g.Node {
	return confirmCard(s, fmt.Sprintf("Delete %s? This cannot be undone.", s.ScientificName), "/delete/resolve", nil)
}

// confirmCard is the modal prompt. Both answers post back to action with
// answer=yes or answer=no.
func confirmCard(s domain.Species, question, action string, carried g.Node) g.Node {
	id := cardID(s.ID)
	return h.Article(h.Class("card confirming"), h.ID(id), h.Role("alertdialog"),
		h.Form(h.Method("post"), h.Action(itemPath(s.ID, action)),
			hx.Post(itemPath(s.ID, action)), hx.Target("#"+id), hx.Swap("outerHTML"),
			h.P(h.Class("question"), g.Text(question)),
			carried,
			h.Div(h.Class("actions"),
				h.Button(h.Type("submit"), h.Name("answer"), h.Value("yes"), h.Class("button danger"), g.Text("Yes")),
				h.Button(h.Type("submit"), h.Name("answer"), h.Value("no"), h.Class("button"), g.Text("No")),
			),
		),
	)
}

func addForm(form domain.SpeciesForm, errs domain.FieldErrors) g.Node {
	return h.Form(h.Class("card add-species"), h.ID(newFormID),
		h.Method("post"), h.Action(listPath),
		hx.Post(listPath), hx.Target("#"+newFormID), hx.Swap("outerHTML"),
		h.H2(g.Text("Add a species")),
		speciesFields(newFormID, form, errs),
		h.Button(h.Type("submit"), h.Class("button primary"), g.Text("Add species")),
	)
}

// speciesFields renders the form inputs. prefix keeps element IDs unique
// when several cards are on one page.
func speciesFields(prefix string, f domain.SpeciesForm, errs domain.FieldErrors) g.Node {
	return g.Group{
		textField(prefix, "scientific_name", "Scientific name", f.ScientificName, errs, h.Required()),
		textField(prefix, "common_name", "Common name", f.CommonName, errs),
		h.Div(h.Class("field"),
			h.Label(h.For(prefix+"-kingdom"), g.Text("Kingdom")),
			h.Select(h.ID(prefix+"-kingdom"), h.Name("kingdom"), h.Required(),
				h.Option(h.Value(""), g.Text("Choose a kingdom")),
				g.Map(domain.Kingdoms(), func(k domain.Kingdom) g.Node {
					return h.Option(h.Value(string(k)), g.If(f.Kingdom == string(k), h.Selected()), g.Text(string(k)))
				}),
			),
			view.FieldError(errs, "kingdom"),
		),
		textField(prefix, "total_population", "Total population", f.TotalPopulation, errs,
			h.Type("number"), h.Min("1"), g.Attr("step", "1")),
		textField(prefix, "image", "Image URL", f.Image, errs, h.Type("url")),
		h.Div(h.Class("field"),
			h.Label(h.For(prefix+"-description"), g.Text("Description")),
			h.Textarea(h.ID(prefix+"-description"), h.Name("description"), g.Attr("rows", "3"), g.Text(f.Description)),
			view.FieldError(errs, "description"),
		),
		h.Div(h.Class("field checkbox"),
			h.Input(h.Type("checkbox"), h.ID(prefix+"-endangered"), h.Name("endangered"), h.Value("on"),
				g.If(f.EndangeredChecked(), h.Checked())),
			h.Label(h.For(prefix+"-endangered"), g.Text("Endangered")),
		),
	}
}

func textField(prefix, name, label, value string, errs domain.FieldErrors, attrs ...g.Node) g.Node {
	id := prefix + "-" + name
	_, invalid := errs[name]
	return h.Div(h.Class("field"),
		h.Label(h.For(id), g.Text(label)),
		h.Input(h.ID(id), h.Name(name), h.Value(value),
			g.If(invalid, h.Aria("invalid", "true")),
			g.Group(attrs),
		),
		view.FieldError(errs, name),
	)
}

// hiddenDraft carries the unsaved form values through the confirm prompt.
func hiddenDraft(f domain.SpeciesForm) g.Node {
	hidden := func(name, value string) g.Node {
		return h.Input(h.Type("hidden"), h.Name(name), h.Value(value))
	}
	return g.Group{
		hidden("scientific_name", f.ScientificName),
		hidden("common_name", f.CommonName),
		hidden("kingdom", f.Kingdom),
		hidden("total_population", f.TotalPopulation),
		hidden("image", f.Image),
		hidden("description", f.Description),
		g.If(f.EndangeredChecked(), hidden("endangered", "on")),
	}
}

func population(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

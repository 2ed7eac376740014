package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/biodex/internal/domain"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// ToastRegionID is the element that out-of-band toasts are appended to.
const ToastRegionID = "toasts"

// Toast renders one notification.
func Toast(n domain.Notification) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="toast toast-%s" role="alert"><strong class="toast-title">%s</strong>`,
			templ.EscapeString(string(n.Severity)), templ.EscapeString(n.Title))
		if err != nil {
			return err
		}
		if n.Description != "" {
			if _, err = fmt.Fprintf(w, `<p class="toast-description">%s</p>`, templ.EscapeString(n.Description)); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}

// OOBToasts appends each notification to the toast region without
// replacing the swap target.
func OOBToasts(ctx context.Context, notes []domain.Notification) g.Node {
	if len(notes) == 0 {
		return nil
	}
	return h.Div(
		h.ID(ToastRegionID),
		hx.SwapOOB("beforeend"),
		g.Map(notes, func(n domain.Notification) g.Node { return Node(ctx, Toast(n)) }),
	)
}

// ToastRegion is the empty container placed once in the layout.
func ToastRegion(flashes FlashData) g.Node {
	return h.Div(
		h.ID(ToastRegionID),
		h.Class("toasts"),
		h.Aria("live", "polite"),
		g.Map(flashes.Success, func(msg string) g.Node {
			return h.Div(h.Class("toast toast-success"), h.Role("status"), g.Text(msg))
		}),
		g.Map(flashes.Error, func(msg string) g.Node {
			return h.Div(h.Class("toast toast-error"), h.Role("alert"), g.Text(msg))
		}),
	)
}

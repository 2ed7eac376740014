package email

import (
	"bytes"
	"fmt"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// WelcomeSubject is the subject line of the sign-up email.
const WelcomeSubject = "Welcome to Biodex"

// WelcomeBody renders the HTML body of the sign-up email.
func WelcomeBody(displayName, baseURL string) (string, error) {
	body := h.Div(
		h.P(g.Textf("Hi %s,", displayName)),
		h.P(g.Text("Your Biodex account is ready. Start cataloguing species:")),
		h.P(h.A(h.Href(baseURL+"/species"), g.Text("Open your species list"))),
	)
	var buf bytes.Buffer
	if err := body.Render(&buf); err != nil {
		return "", fmt.Errorf("render welcome email: %w", err)
	}
	return buf.String(), nil
}

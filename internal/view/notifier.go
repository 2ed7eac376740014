package view

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
)

// RequestNotifier delivers notifications raised while handling one request.
// Success notifications are stored as flashes so they survive the reload that
// follows every successful mutation. Errors are held for the handler to
// render as out-of-band toasts in the same response.
type RequestNotifier struct {
	c      echo.Context
	errors []domain.Notification
}

var _ domain.Notifier = (*RequestNotifier)(nil)

func NewRequestNotifier(c echo.Context) *RequestNotifier {
	return &RequestNotifier{c: c}
}

func (n *RequestNotifier) Notify(note domain.Notification) {
	if note.Severity == domain.SeverityError {
		n.errors = append(n.errors, note)
		return
	}
	SetFlashSuccess(n.c, NotificationText(note))
}

// Errors returns the error notifications raised so far.
func (n *RequestNotifier) Errors() []domain.Notification { return n.errors }

// NotificationText flattens a notification into one line.
func NotificationText(note domain.Notification) string {
	return strings.TrimSpace(note.Title + " " + note.Description)
}

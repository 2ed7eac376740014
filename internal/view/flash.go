package view

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
	flashKeyEmail    = "form_email"
)

// FlashData holds the flash messages consumed by one page render.
type FlashData struct {
	Success []string
	Error   []string
}

// Empty reports whether there is nothing to show.
func (f FlashData) Empty() bool { return len(f.Success) == 0 && len(f.Error) == 0 }

// setFlash sets a flash message in the session.
func setFlash(c echo.Context, key, message string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(message, key)
	_ = sess.Save(c.Request(), c.Response())
}

// SetFlashSuccess sets a success flash message.
func SetFlashSuccess(c echo.Context, message string) {
	setFlash(c, flashKeySuccess, message)
}

// SetFlashError sets an error flash message.
func SetFlashError(c echo.Context, message string) {
	setFlash(c, flashKeyError, message)
}

// SetFlashEmail remembers the email from a failed auth form so the next
// render can pre-fill it.
func SetFlashEmail(c echo.Context, email string) {
	setFlash(c, flashKeyEmail, email)
}

// GetFlashEmail consumes the remembered email, if any.
func GetFlashEmail(c echo.Context) string {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return ""
	}
	flashes := sess.Flashes(flashKeyEmail)
	if len(flashes) == 0 {
		return ""
	}
	_ = sess.Save(c.Request(), c.Response())
	email, _ := flashes[0].(string)
	return email
}

// GetFlashData retrieves and clears flash messages from the session.
func GetFlashData(c echo.Context) FlashData {
	var data FlashData
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return data
	}

	// Flashes retrieves and then clears the flashes from the session.
	successFlashes := sess.Flashes(flashKeySuccess)
	errorFlashes := sess.Flashes(flashKeyError)
	if len(successFlashes) == 0 && len(errorFlashes) == 0 {
		return data
	}

	data.Success = toStrings(successFlashes)
	data.Error = toStrings(errorFlashes)
	_ = sess.Save(c.Request(), c.Response())
	return data
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

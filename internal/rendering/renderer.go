package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"
)

// Renderer renders templ components and gomponents nodes.
type Renderer interface {
	// RenderComponent renders a component to bytes, for fragments assembled
	// outside a response.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes component as the full HTML response.
	RenderPage(c echo.Context, status int, component any) error
}

// UniversalRenderer dispatches on the component type. It also satisfies
// echo.Renderer so handlers can call c.Render(status, "", component).
type UniversalRenderer struct{}

var (
	_ Renderer      = (*UniversalRenderer)(nil)
	_ echo.Renderer = (*UniversalRenderer)(nil)
)

func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

func (r *UniversalRenderer) render(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case g.Node:
		return c.Render(w)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported component type %T: want templ.Component or gomponents.Node", component)
	}
}

func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage buffers the output first so a render failure can still become
// a 500 instead of a truncated page.
func (r *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := r.RenderComponent(c.Request().Context(), component)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return c.HTMLBlob(status, body)
}

// Render implements echo.Renderer. The template name is ignored and the
// component is passed as data.
func (r *UniversalRenderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return r.render(c.Request().Context(), data, w)
}

// Package server assembles the Echo instance, its middleware and routes.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/biodex/internal/app"
	"github.com/nfrund/biodex/internal/config"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/handlers"
	"github.com/nfrund/biodex/internal/metrics"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/module"
	"github.com/nfrund/biodex/internal/registry"
	"github.com/nfrund/biodex/internal/rendering"
	"github.com/nfrund/biodex/web"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E         *echo.Echo
	Cfg       config.Provider
	Registry  *registry.Registry
	Modules   []module.Module
	users     domain.UserRepository
	emailer   domain.EmailSender
	metrics   *metrics.Metrics
	container *app.Container
}

// Deps are the services a Server is built from.
type Deps struct {
	Config   config.Provider
	Registry *registry.Registry
	Users    domain.UserRepository
	Emailer  domain.EmailSender
	Metrics  *metrics.Metrics
	Modules  []module.Module
}

// New builds the server from the container's services.
func New(cfg config.Provider, container *app.Container) (*Server, error) {
	stores, err := container.Stores()
	if err != nil {
		return nil, err
	}
	emailer, err := container.Emailer()
	if err != nil {
		return nil, err
	}
	reg, err := container.Registry()
	if err != nil {
		return nil, err
	}

	s := NewWithDeps(Deps{
		Config:   cfg,
		Registry: reg,
		Users:    stores.Users,
		Emailer:  emailer,
		Metrics:  container.Metrics(),
		Modules:  app.NewModules(),
	})
	s.container = container
	return s, nil
}

// NewWithDeps builds the server from explicit dependencies. Routes are
// not registered until RegisterRoutes is called.
func NewWithDeps(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.Renderer = rendering.NewUniversalRenderer()
	setupErrorHandling(e)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(middleware.Metrics(d.Metrics))

	store := sessions.NewCookieStore([]byte(d.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(middleware.LoadUser(d.Users))

	if static, err := fs.Sub(web.FS, "static"); err == nil {
		e.StaticFS("/static", static)
	}

	return &Server{
		E:        e,
		Cfg:      d.Config,
		Registry: d.Registry,
		Modules:  d.Modules,
		users:    d.Users,
		emailer:  d.Emailer,
		metrics:  d.Metrics,
	}
}

// setupErrorHandling logs unexpected errors with a stack trace before
// handing them to Echo's default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			logger := middleware.FromContext(c.Request().Context())
			logger.Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// Shutdown stops the modules and then the container's services.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(s.Modules) - 1; i >= 0; i-- {
		if err := s.Modules[i].Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "Module shutdown failed", "module", s.Modules[i].Name(), "error", err)
			errs = append(errs, err)
		}
	}
	if s.container != nil {
		errs = append(errs, s.container.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

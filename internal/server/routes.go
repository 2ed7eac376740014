package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/handlers"
	"github.com/nfrund/biodex/internal/middleware"
)

// RegisterRoutes mounts the top-level routes and boots every module under
// "/"+Name() behind the session guard. ctx bounds the modules' background
// work.
func (s *Server) RegisterRoutes(ctx context.Context) error {
	home := handlers.NewHomeHandler()
	auth := handlers.NewAuthHandler(s.users, s.emailer, s.metrics, s.Cfg.GetAppBaseURL())
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/", home.HomeGet)
	s.E.POST("/signup", auth.SignUpPost, rateLimiter)
	s.E.POST("/login", auth.LoginPost, rateLimiter)
	s.E.POST("/logout", auth.Logout)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.E.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	for _, m := range s.Modules {
		if err := m.Register(s.Registry); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	for _, m := range s.Modules {
		group := s.E.Group("/"+m.Name(), middleware.RequireSession)
		if err := m.Boot(ctx, group, s.Registry); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
	}
	return nil
}

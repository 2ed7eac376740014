package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

// Start serves on addr until ctx is cancelled or an interrupt or terminate
// signal arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.RegisterRoutes(ctx); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", addr)
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.E.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.Shutdown(shutdownCtx)
}

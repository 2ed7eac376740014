package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/nfrund/biodex/internal/app"
	"github.com/nfrund/biodex/internal/config"
	"github.com/nfrund/biodex/internal/logging"
	"github.com/nfrund/biodex/internal/server"
)

// version is set at build time.
// Example: go build -ldflags "-X 'main.version=1.2.0'"
var version = "dev"

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.GetLogFormat(), cfg.GetLogLevel()))

	ctx := context.Background()
	container := app.NewContainer(ctx, cfg, version)

	s, err := server.New(cfg, container)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		_ = container.Shutdown(ctx)
		os.Exit(1)
	}

	if err := s.Start(ctx, cfg.GetServerAddr()); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

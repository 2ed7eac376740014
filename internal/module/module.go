// Package module defines the lifecycle shared by feature modules.
package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/registry"
)

// Module defines the contract for a self-contained application feature.
type Module interface {
	// Name returns a unique identifier for the module. It is also the
	// path segment its routes are mounted under.
	Name() string

	// Register is called during startup to publish the module's services
	// to the registry.
	Register(reg *registry.Registry) error

	// Boot is called after every module has registered. Routes are mounted
	// on router and background subscribers are started here.
	Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error

	// Shutdown is called during graceful shutdown.
	Shutdown(ctx context.Context) error
}

// BaseModule provides no-op implementations for the optional phases.
type BaseModule struct{}

func (m *BaseModule) Register(reg *registry.Registry) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, reg *registry.Registry) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error {
	return nil
}

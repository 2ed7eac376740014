// Package profiles serves the read-only profile list.
package profiles

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/module"
	"github.com/nfrund/biodex/internal/registry"
)

type Module struct {
	module.BaseModule
	handler *Handler
}

func New() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "profiles"
}

func (m *Module) Boot(ctx context.Context, group *echo.Group, reg *registry.Registry) error {
	repo, ok := registry.Get(reg, registry.ProfileRepositoryKey)
	if !ok {
		return fmt.Errorf("profiles: %s not registered", registry.ProfileRepositoryKey)
	}
	m.handler = NewHandler(repo)
	group.GET("", m.handler.List)
	return nil
}

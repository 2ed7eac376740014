// Package species serves the species list and the per-card editor, and
// publishes species change events.
package species

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/module"
	"github.com/nfrund/biodex/internal/registry"
)

type Module struct {
	module.BaseModule
	handler  *Handler
	activity *ActivitySubscriber
}

func New() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "species"
}

func (m *Module) Boot(ctx context.Context, group *echo.Group, reg *registry.Registry) error {
	repo, ok := registry.Get(reg, registry.SpeciesRepositoryKey)
	if !ok {
		return fmt.Errorf("species: %s not registered", registry.SpeciesRepositoryKey)
	}
	pub, _ := registry.Get(reg, registry.PublisherKey)

	if sub, ok := registry.Get(reg, registry.SubscriberKey); ok {
		m.activity = NewActivitySubscriber(sub, registry.MustGet(reg, registry.MetricsKey))
		if err := m.activity.Start(ctx); err != nil {
			return fmt.Errorf("species: %w", err)
		}
	}

	m.handler = NewHandler(repo, pub)
	m.handler.routes(group)
	return nil
}

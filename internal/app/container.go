// Package app assembles the application's services and modules.
package app

import (
	"context"
	"fmt"

	"github.com/nfrund/biodex/internal/config"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/email"
	"github.com/nfrund/biodex/internal/metrics"
	"github.com/nfrund/biodex/internal/pubsub"
	"github.com/nfrund/biodex/internal/registry"
	"github.com/samber/do/v2"
	"go.opentelemetry.io/otel/trace"
)

// Tracing holds the bus tracer and flushes spans on shutdown.
type Tracing struct {
	Tracer   trace.Tracer
	shutdown func(context.Context) error
}

func (t *Tracing) Shutdown(ctx context.Context) error { return t.shutdown(ctx) }

// Events is the event bus as held by the container.
type Events struct {
	pubsub.Bus
}

func (e *Events) Shutdown(context.Context) error { return e.Close() }

// Container lazily builds services on first use. Shutdown releases them
// in reverse dependency order.
type Container struct {
	injector *do.RootScope
}

// NewContainer registers every provider. Nothing is built until invoked.
// ctx bounds the startup work of the providers, such as connecting to the
// store.
func NewContainer(ctx context.Context, cfg config.Provider, version string) *Container {
	i := do.New()

	do.ProvideValue[config.Provider](i, cfg)
	do.Provide(i, func(do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})
	do.Provide(i, func(do.Injector) (*Tracing, error) {
		tracer, shutdown, err := pubsub.SetupTracing(ctx, pubsub.TracingConfigFromEnv(version))
		if err != nil {
			return nil, err
		}
		return &Tracing{Tracer: tracer, shutdown: shutdown}, nil
	})
	do.Provide(i, func(i do.Injector) (*Events, error) {
		tracing, err := do.Invoke[*Tracing](i)
		if err != nil {
			return nil, err
		}
		return &Events{Bus: pubsub.NewWatermillBridge(tracing.Tracer)}, nil
	})
	do.Provide(i, func(i do.Injector) (*Stores, error) {
		return OpenStores(ctx, do.MustInvoke[config.Provider](i))
	})
	do.Provide(i, func(i do.Injector) (domain.EmailSender, error) {
		return email.NewEmailService(do.MustInvoke[config.Provider](i))
	})
	do.Provide(i, func(i do.Injector) (*registry.Registry, error) {
		stores, err := do.Invoke[*Stores](i)
		if err != nil {
			return nil, err
		}
		events, err := do.Invoke[*Events](i)
		if err != nil {
			return nil, err
		}
		reg := registry.New(do.MustInvoke[config.Provider](i))
		registry.Set(reg, registry.SpeciesRepositoryKey, stores.Species)
		registry.Set(reg, registry.ProfileRepositoryKey, stores.Profiles)
		registry.Set[pubsub.Publisher](reg, registry.PublisherKey, events)
		registry.Set[pubsub.Subscriber](reg, registry.SubscriberKey, events)
		registry.Set(reg, registry.MetricsKey, do.MustInvoke[*metrics.Metrics](i))
		return reg, nil
	})

	return &Container{injector: i}
}

func (c *Container) Metrics() *metrics.Metrics {
	return do.MustInvoke[*metrics.Metrics](c.injector)
}

func (c *Container) Stores() (*Stores, error) {
	return do.Invoke[*Stores](c.injector)
}

func (c *Container) Emailer() (domain.EmailSender, error) {
	return do.Invoke[domain.EmailSender](c.injector)
}

func (c *Container) Registry() (*registry.Registry, error) {
	return do.Invoke[*registry.Registry](c.injector)
}

// Shutdown stops every built service.
func (c *Container) Shutdown(ctx context.Context) error {
	report := c.injector.ShutdownWithContext(ctx)
	if report != nil && !report.Succeed {
		return fmt.Errorf("shutdown: %s", report.Error())
	}
	return nil
}

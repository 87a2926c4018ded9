package containers

import (
	"context"
	"net/http"

	"github.com/goliatone/go-cms-containers/internal/di"
	"github.com/goliatone/go-cms-containers/internal/localization"
	"github.com/goliatone/go-cms-containers/internal/registry"
)

// Payload exports the localization summary body.
type Payload = localization.Payload

// SummaryRequest exports the summary request parameters.
type SummaryRequest = localization.SummaryRequest

// SummaryProvider exports the host summary engine contract.
type SummaryProvider = localization.SummaryProvider

// LocalizationService exports the localization service contract.
type LocalizationService = localization.Service

// Rebuilder exports the payload rebuilder.
type Rebuilder = localization.Rebuilder

// Registry exports the container registry.
type Registry = registry.Registry

// Option overrides a dependency built from config.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithBunDB           = di.WithBunDB
	WithContentStore    = di.WithContentStore
	WithRegistry        = di.WithRegistry
	WithSummaryProvider = di.WithSummaryProvider
	WithHTTPClient      = di.WithHTTPClient
)

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Rebuilder returns the configured payload rebuilder.
func (m *Module) Rebuilder() *Rebuilder {
	return m.container.Rebuilder()
}

// Service returns the configured localization service.
func (m *Module) Service() LocalizationService {
	return m.container.Service()
}

// Registry returns the container registry.
func (m *Module) Registry() *Registry {
	return m.container.Registry()
}

// Handler returns the HTTP handler serving every route.
func (m *Module) Handler() http.Handler {
	return m.container.Handler()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

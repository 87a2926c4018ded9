package di

import (
	"context"
	"net/http"

	containershttp "github.com/goliatone/go-cms-containers/internal/http"
	"github.com/goliatone/go-cms-containers/internal/localization"
	"github.com/goliatone/go-cms-containers/internal/logging"
	"github.com/goliatone/go-cms-containers/internal/logging/gologger"
	"github.com/goliatone/go-cms-containers/internal/registry"
	"github.com/goliatone/go-cms-containers/internal/runtimeconfig"
	"github.com/goliatone/go-cms-containers/internal/storage"
	"github.com/goliatone/go-cms-containers/pkg/interfaces"
	"github.com/uptrace/bun"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client

	bunDB  *bun.DB
	ownsDB bool

	registry  *registry.Registry
	store     localization.ContentStore
	provider  localization.SummaryProvider
	rebuilder *localization.Rebuilder
	service   localization.Service
	api       *containershttp.LocalizationAPI
	mux       *http.ServeMux
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the go-logger provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithContentStore overrides the content store. No database is opened.
func WithContentStore(store localization.ContentStore) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithRegistry overrides the registry built from config.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithSummaryProvider overrides the upstream summary provider.
func WithSummaryProvider(provider localization.SummaryProvider) Option {
	return func(c *Container) {
		c.provider = provider
	}
}

// WithHTTPClient sets the client used to reach the upstream endpoint.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureRegistry(); err != nil {
		return nil, err
	}
	if err := c.configureStore(ctx); err != nil {
		return nil, err
	}
	if err := c.configureProvider(); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.rebuilder = localization.NewRebuilder(c.registry, c.store)
	c.service = localization.NewService(c.provider, c.rebuilder,
		localization.WithLogger(logging.LocalizationLogger(c.loggerProvider)),
	)
	c.api = containershttp.NewLocalizationAPI(
		containershttp.WithBasePath(cfg.HTTP.BasePath),
		containershttp.WithSummaryService(c.service),
		containershttp.WithRegistry(c.registry),
		containershttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
	c.mux = http.NewServeMux()
	if err := c.api.Register(c.mux); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureRegistry() error {
	if c.registry != nil {
		return nil
	}
	reg, err := registry.NewFromConfig(c.Config.Containers)
	if err != nil {
		return err
	}
	c.registry = reg
	logging.RegistryLogger(c.loggerProvider).Info("containers.registry.loaded",
		"types", len(reg.GetRegisteredContainerTypeTags()),
		"columns", len(reg.GetAllAvailableColumnDefinitions()),
	)
	return nil
}

func (c *Container) configureStore(ctx context.Context) error {
	if c.store != nil {
		return nil
	}
	if c.bunDB == nil {
		db, err := storage.Open(ctx, c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	c.store = localization.NewBunContentStore(c.bunDB, localization.WithTable(c.Config.Storage.Table))
	return nil
}

func (c *Container) configureProvider() error {
	if c.provider != nil || c.Config.Upstream.URL == "" {
		return nil
	}
	provider, err := localization.NewUpstreamProvider(c.Config.Upstream.URL,
		localization.WithHTTPClient(c.httpClient),
		localization.WithTimeout(c.Config.Upstream.Timeout),
	)
	if err != nil {
		return err
	}
	c.provider = provider
	return nil
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the database, nil when a custom store was supplied.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// Registry returns the container registry.
func (c *Container) Registry() *registry.Registry {
	return c.registry
}

// ContentStore returns the content store.
func (c *Container) ContentStore() localization.ContentStore {
	return c.store
}

// Rebuilder returns the payload rebuilder.
func (c *Container) Rebuilder() *localization.Rebuilder {
	return c.rebuilder
}

// Service returns the localization service.
func (c *Container) Service() localization.Service {
	return c.service
}

// Handler returns the mux with every route registered.
func (c *Container) Handler() http.Handler {
	return c.mux
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || !c.ownsDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}

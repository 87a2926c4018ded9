package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-containers/internal/localization"
	"github.com/goliatone/go-cms-containers/internal/logging"
	"github.com/goliatone/go-cms-containers/pkg/interfaces"
)

// DefaultBasePath is where routes mount when no base path is configured.
const DefaultBasePath = "/typo3/ajax"

// LocalizationAPI registers the localization summary endpoints.
type LocalizationAPI struct {
	basePath string
	service  localization.Service
	registry interfaces.ContainerRegistry
	logger   interfaces.Logger
}

// LocalizationOption mutates the LocalizationAPI configuration.
type LocalizationOption func(*LocalizationAPI)

// NewLocalizationAPI constructs a LocalizationAPI instance.
func NewLocalizationAPI(opts ...LocalizationOption) *LocalizationAPI {
	api := &LocalizationAPI{
		basePath: DefaultBasePath,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base path (defaults to "/typo3/ajax").
func WithBasePath(path string) LocalizationOption {
	return func(api *LocalizationAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithSummaryService wires the localization service.
func WithSummaryService(service localization.Service) LocalizationOption {
	return func(api *LocalizationAPI) {
		if api != nil {
			api.service = service
		}
	}
}

// WithRegistry wires the container registry used by the columns route.
func WithRegistry(registry interfaces.ContainerRegistry) LocalizationOption {
	return func(api *LocalizationAPI) {
		if api != nil {
			api.registry = registry
		}
	}
}

// WithLogger overrides the request logger.
func WithLogger(logger interfaces.Logger) LocalizationOption {
	return func(api *LocalizationAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *LocalizationAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: localization api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerRecordRoutes(mux, base)
	api.registerContainerRoutes(mux, base)

	return nil
}

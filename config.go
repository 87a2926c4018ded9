package containers

import "github.com/goliatone/go-cms-containers/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired   = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingLevelInvalid  = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid = runtimeconfig.ErrLoggingFormatInvalid
	ErrHTTPAddressRequired  = runtimeconfig.ErrHTTPAddressRequired
	ErrUpstreamURLInvalid   = runtimeconfig.ErrUpstreamURLInvalid
)

type (
	Config                    = runtimeconfig.Config
	StorageConfig             = runtimeconfig.StorageConfig
	LoggingConfig             = runtimeconfig.LoggingConfig
	HTTPConfig                = runtimeconfig.HTTPConfig
	UpstreamConfig            = runtimeconfig.UpstreamConfig
	ContainersConfig          = runtimeconfig.ContainersConfig
	ContainerDefinitionConfig = runtimeconfig.ContainerDefinitionConfig
	ColumnDefinitionConfig    = runtimeconfig.ColumnDefinitionConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads defaults, an optional YAML file, CONTAINERS_ environment
// variables and explicitly set flags, in that order.
var LoadConfig = runtimeconfig.Load

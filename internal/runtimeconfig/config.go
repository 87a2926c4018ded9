package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	ErrStorageDriverUnknown = errors.New("containers config: storage driver is invalid")
	ErrStorageDSNRequired   = errors.New("containers config: storage dsn is required")
	ErrLoggingLevelInvalid  = errors.New("containers config: logging level is invalid")
	ErrLoggingFormatInvalid = errors.New("containers config: logging format is invalid")
	ErrHTTPAddressRequired  = errors.New("containers config: http address is required")
	ErrUpstreamURLInvalid   = errors.New("containers config: upstream url must be an absolute http(s) url")
)

// Config aggregates the settings needed to serve container-aware localization
// summaries.
type Config struct {
	Storage    StorageConfig    `koanf:"storage"`
	Logging    LoggingConfig    `koanf:"logging"`
	HTTP       HTTPConfig       `koanf:"http"`
	Upstream   UpstreamConfig   `koanf:"upstream"`
	Containers ContainersConfig `koanf:"containers"`
}

// StorageConfig selects the database holding the content table.
type StorageConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
	// Table defaults to tt_content.
	Table string `koanf:"table"`
}

// LoggingConfig captures go-logger options.
type LoggingConfig struct {
	Level     string   `koanf:"level"`
	Format    string   `koanf:"format"`
	AddSource bool     `koanf:"add_source"`
	Focus     []string `koanf:"focus"`
}

// HTTPConfig configures the admin endpoint.
type HTTPConfig struct {
	Address  string `koanf:"address"`
	BasePath string `koanf:"base_path"`
}

// UpstreamConfig points at the host's unmodified localization summary
// endpoint. An empty URL leaves the summary route unmounted.
type UpstreamConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// ContainersConfig lists container elements registered at boot.
type ContainersConfig struct {
	Definitions []ContainerDefinitionConfig `koanf:"definitions"`
}

// ContainerDefinitionConfig mirrors registry.ContainerDefinition.
type ContainerDefinitionConfig struct {
	CType       string                     `koanf:"ctype"`
	Label       string                     `koanf:"label"`
	Description string                     `koanf:"description"`
	Grid        [][]ColumnDefinitionConfig `koanf:"grid"`
}

// ColumnDefinitionConfig is one slot inside a container grid row.
type ColumnDefinitionConfig struct {
	Name           string `koanf:"name"`
	ColumnPosition int    `koanf:"colpos"`
}

// DefaultConfig returns a local sqlite setup with no containers registered.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:containers.db?cache=shared&_fk=1",
			Table:  "tt_content",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			Address:  ":8080",
			BasePath: "/typo3/ajax",
		},
		Upstream: UpstreamConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Validate performs consistency checks. Container definitions are validated
// by the registry when it is built.
func (cfg Config) Validate() error {
	driver := NormalizeDriver(cfg.Storage.Driver)
	if driver != "sqlite" && driver != "postgres" {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	if strings.TrimSpace(cfg.HTTP.Address) == "" {
		return ErrHTTPAddressRequired
	}
	if raw := strings.TrimSpace(cfg.Upstream.URL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: %s", ErrUpstreamURLInvalid, raw)
		}
	}
	return nil
}

// NormalizeDriver maps driver aliases onto "sqlite" or "postgres".
func NormalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "postgresql", "pgx":
		return "postgres"
	default:
		return ""
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

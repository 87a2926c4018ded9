package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix scopes environment overrides. Nested keys use a double
// underscore, e.g. CONTAINERS_STORAGE__DSN sets storage.dsn.
const EnvPrefix = "CONTAINERS_"

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"addr":         "http.address",
	"base-path":    "http.base_path",
	"driver":       "storage.driver",
	"dsn":          "storage.dsn",
	"upstream-url": "upstream.url",
}

// Load resolves configuration from defaults, an optional YAML file,
// CONTAINERS_ environment variables and explicitly set flags, in increasing
// order of precedence. The result is validated before it is returned.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("runtimeconfig: load defaults: %w", err)
	}

	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("runtimeconfig: read %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("runtimeconfig: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Config{}, fmt.Errorf("runtimeconfig: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("runtimeconfig: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultValues() map[string]any {
	defaults := DefaultConfig()
	return map[string]any{
		"storage.driver":   defaults.Storage.Driver,
		"storage.dsn":      defaults.Storage.DSN,
		"storage.table":    defaults.Storage.Table,
		"logging.level":    defaults.Logging.Level,
		"logging.format":   defaults.Logging.Format,
		"http.address":     defaults.HTTP.Address,
		"http.base_path":   defaults.HTTP.BasePath,
		"upstream.timeout": defaults.Upstream.Timeout.String(),
	}
}

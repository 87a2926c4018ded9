package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-containers/pkg/interfaces"
)

const (
	rootModule         = "containers"
	localizationModule = "containers.localization"
	registryModule     = "containers.registry"
	httpModule         = "containers.http"
)

const (
	fieldPageID         = "page_id"
	fieldDestLanguageID = "dest_language_id"
	fieldRequestID      = "request_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// LocalizationLogger returns the logger namespace used by the summary service.
func LocalizationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localizationModule)
}

// RegistryLogger returns the logger namespace used during registry bootstrap.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// HTTPLogger returns the logger namespace used by the HTTP adapters.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WithSummaryContext enriches the logger with the page and target language of
// a localization summary request. A blank request id is skipped.
func WithSummaryContext(logger interfaces.Logger, pageID, destLanguageID int64, requestID string) interfaces.Logger {
	fields := map[string]any{
		fieldPageID:         pageID,
		fieldDestLanguageID: destLanguageID,
	}
	if trimmed := strings.TrimSpace(requestID); trimmed != "" {
		fields[fieldRequestID] = trimmed
	}
	return WithFields(logger, fields)
}

// WithRequestID attaches a request id when one is set.
func WithRequestID(logger interfaces.Logger, requestID string) interfaces.Logger {
	trimmed := strings.TrimSpace(requestID)
	if trimmed == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldRequestID: trimmed})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

package logging

import (
	"maps"

	"github.com/goliatone/go-cms-containers/pkg/interfaces"
)

// WithFields attaches fields when the logger implements FieldsLogger and
// returns it unchanged otherwise. The map is copied before use.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}

package localization

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-containers/internal/logging"
	"github.com/goliatone/go-cms-containers/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrSummaryProviderRequired = errors.New("localization: summary provider is required")
	ErrRebuilderRequired       = errors.New("localization: rebuilder is required")
)

// SummaryRequest carries the parameters of a localization summary call.
type SummaryRequest struct {
	PageID         int64 `json:"pageId"`
	DestLanguageID int64 `json:"destLanguageId"`
	LanguageID     int64 `json:"languageId"`
}

// Validate checks the ids are usable by the host.
func (r SummaryRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.PageID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.DestLanguageID, validation.Min(int64(0))),
		validation.Field(&r.LanguageID, validation.Min(int64(0))),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "summary request invalid")
	}
	return nil
}

// SummaryProvider computes the unmodified localization summary, typically
// the host's own engine.
type SummaryProvider interface {
	RecordLocalizeSummary(ctx context.Context, req SummaryRequest) (Payload, error)
}

// Service exposes container-aware localization summaries.
type Service interface {
	Summarize(ctx context.Context, req SummaryRequest) (Payload, error)
	Rebuild(ctx context.Context, payload Payload) (Payload, error)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithLogger overrides the logger used by the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	provider  SummaryProvider
	rebuilder *Rebuilder
	logger    interfaces.Logger
}

// NewService composes the host summary provider with a rebuilder. A nil
// provider limits the service to Rebuild.
func NewService(provider SummaryProvider, rebuilder *Rebuilder, opts ...ServiceOption) Service {
	s := &service{
		provider:  provider,
		rebuilder: rebuilder,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize asks the provider for the summary and rebuilds it.
func (s *service) Summarize(ctx context.Context, req SummaryRequest) (Payload, error) {
	if s.provider == nil {
		return Payload{}, ErrSummaryProviderRequired
	}
	if err := req.Validate(); err != nil {
		return Payload{}, err
	}
	logger := logging.WithSummaryContext(s.logger, req.PageID, req.DestLanguageID, RequestIDFromContext(ctx))

	summary, err := s.provider.RecordLocalizeSummary(ctx, req)
	if err != nil {
		logger.Error("localization.summary.provider_failed", "error", err)
		return Payload{}, err
	}
	return s.rebuild(ctx, logger, summary)
}

// Rebuild applies the container adjustments to a summary computed elsewhere.
func (s *service) Rebuild(ctx context.Context, payload Payload) (Payload, error) {
	return s.rebuild(ctx, logging.WithRequestID(s.logger, RequestIDFromContext(ctx)), payload)
}

func (s *service) rebuild(ctx context.Context, logger interfaces.Logger, payload Payload) (Payload, error) {
	if s.rebuilder == nil {
		return Payload{}, ErrRebuilderRequired
	}
	rebuilt, err := s.rebuilder.Rebuild(ctx, payload)
	if err != nil {
		logger.Error("localization.summary.rebuild_failed", "error", err)
		return Payload{}, err
	}
	logger.Debug("localization.summary.rebuilt",
		"filtered_records", payload.Records.Count()-rebuilt.Records.Count(),
		"container_columns", addedColumns(payload.Columns, rebuilt.Columns),
	)
	return rebuilt, nil
}

func addedColumns(before, after ColumnSet) int {
	added := 0
	for pos := range after.Labels {
		if _, ok := before.Labels[pos]; !ok {
			added++
		}
	}
	return added
}

type requestIDKey struct{}

// WithRequestID stores a request id for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

package localization

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultUpstreamTimeout = 10 * time.Second
	maxUpstreamBody        = 8 << 20
	maxUpstreamErrorBody   = 512

	// RequestIDHeader carries the request id to the host.
	RequestIDHeader = "X-Request-Id"
)

var ErrUpstreamEndpointInvalid = errors.New("localization: upstream endpoint must be an absolute http(s) url")

// UpstreamError reports a non-200 answer from the host summary endpoint.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("localization: upstream responded %d", e.Status)
	}
	return fmt.Sprintf("localization: upstream responded %d: %s", e.Status, e.Body)
}

// UpstreamProvider fetches the unmodified summary from the host over HTTP.
type UpstreamProvider struct {
	endpoint *url.URL
	client   *http.Client
}

var _ SummaryProvider = (*UpstreamProvider)(nil)

// UpstreamOption configures an UpstreamProvider.
type UpstreamOption func(*UpstreamProvider)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) UpstreamOption {
	return func(p *UpstreamProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout sets the client timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) UpstreamOption {
	return func(p *UpstreamProvider) {
		if timeout > 0 {
			client := *p.client
			client.Timeout = timeout
			p.client = &client
		}
	}
}

// NewUpstreamProvider targets the host endpoint answering localization
// summary requests.
func NewUpstreamProvider(endpoint string, opts ...UpstreamOption) (*UpstreamProvider, error) {
	parsed, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrUpstreamEndpointInvalid, endpoint)
	}
	provider := &UpstreamProvider{
		endpoint: parsed,
		client:   &http.Client{Timeout: defaultUpstreamTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}
	return provider, nil
}

// RecordLocalizeSummary implements SummaryProvider.
func (p *UpstreamProvider) RecordLocalizeSummary(ctx context.Context, req SummaryRequest) (Payload, error) {
	target := *p.endpoint
	query := target.Query()
	query.Set("pageId", strconv.FormatInt(req.PageID, 10))
	query.Set("destLanguageId", strconv.FormatInt(req.DestLanguageID, 10))
	query.Set("languageId", strconv.FormatInt(req.LanguageID, 10))
	target.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Payload{}, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set(RequestIDHeader, id)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return Payload{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return Payload{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Payload{}, &UpstreamError{Status: resp.StatusCode, Body: truncate(strings.TrimSpace(string(body)), maxUpstreamErrorBody)}
	}
	return DecodePayload(body)
}

// truncate cuts value to at most limit bytes without splitting a rune.
func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}

// StaticProvider serves a fixed summary.
type StaticProvider struct {
	Payload Payload
	Err     error
}

var _ SummaryProvider = StaticProvider{}

// RecordLocalizeSummary implements SummaryProvider.
func (p StaticProvider) RecordLocalizeSummary(context.Context, SummaryRequest) (Payload, error) {
	if p.Err != nil {
		return Payload{}, p.Err
	}
	return p.Payload.Clone(), nil
}

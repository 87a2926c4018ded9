package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-cms-containers/internal/localization"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type errorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message,omitempty"`
	Issues  goerrors.ValidationErrors `json:"issues,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		issues, _ := goerrors.GetValidationErrors(err)
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
			Issues:  issues,
		}
	}

	var upstreamErr *localization.UpstreamError
	if errors.As(err, &upstreamErr) {
		return http.StatusBadGateway, errorResponse{
			Error:   "bad_gateway",
			Message: upstreamErr.Error(),
		}
	}

	// Handlers decode request bodies before calling the service, so a payload
	// decode failure reaching this point came from the host. Stored rows that
	// fail to decode are a server fault.
	var decodeErr *localization.DecodeError
	if errors.As(err, &decodeErr) {
		if decodeTextCode(err) == localization.RecordDecodeTextCode {
			return http.StatusInternalServerError, errorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			}
		}
		return http.StatusBadGateway, errorResponse{
			Error:   "bad_gateway",
			Message: err.Error(),
		}
	}

	if errors.Is(err, localization.ErrSummaryProviderRequired) ||
		errors.Is(err, localization.ErrRebuilderRequired) {
		return http.StatusServiceUnavailable, errorResponse{
			Error:   "service_unavailable",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}

func decodeTextCode(err error) string {
	var richErr *goerrors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

func parseIntQuery(r *http.Request, key string, required bool) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		if required {
			return 0, fmt.Errorf("query parameter %s is required", key)
		}
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", key)
	}
	return value, nil
}

func requestID(r *http.Request) string {
	if r != nil {
		if id := strings.TrimSpace(r.Header.Get(localization.RequestIDHeader)); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

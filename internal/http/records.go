package http

import (
	"net/http"

	"github.com/goliatone/go-cms-containers/internal/localization"
	"github.com/goliatone/go-cms-containers/internal/logging"
)

func (api *LocalizationAPI) registerRecordRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "records")
	mux.HandleFunc("GET "+root+"/localize-summary", api.handleLocalizeSummary)
	mux.HandleFunc("POST "+root+"/rebuild", api.handleRebuild)
}

func (api *LocalizationAPI) handleLocalizeSummary(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id := requestID(r)
	w.Header().Set(localization.RequestIDHeader, id)

	var req localization.SummaryRequest
	var err error
	if req.PageID, err = parseIntQuery(r, "pageId", true); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if req.DestLanguageID, err = parseIntQuery(r, "destLanguageId", true); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if req.LanguageID, err = parseIntQuery(r, "languageId", false); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	logger := logging.WithSummaryContext(api.logger, req.PageID, req.DestLanguageID, id)
	payload, err := api.service.Summarize(localization.WithRequestID(r.Context(), id), req)
	if err != nil {
		status, body := mapError(err)
		logger.Warn("http.localization.summary_failed", "status", status, "error", err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (api *LocalizationAPI) handleRebuild(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.service == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id := requestID(r)
	w.Header().Set(localization.RequestIDHeader, id)

	var payload localization.Payload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	rebuilt, err := api.service.Rebuild(localization.WithRequestID(r.Context(), id), payload)
	if err != nil {
		status, body := mapError(err)
		logging.WithRequestID(api.logger, id).Warn("http.localization.rebuild_failed", "status", status, "error", err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, rebuilt)
}

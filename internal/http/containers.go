package http

import (
	"net/http"

	"github.com/goliatone/go-cms-containers/pkg/interfaces"
)

type containerColumnsResponse struct {
	Types   []string                     `json:"types"`
	Columns []interfaces.ContainerColumn `json:"columns"`
}

func (api *LocalizationAPI) registerContainerRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	mux.HandleFunc("GET "+joinPath(base, "containers/columns"), api.handleContainerColumns)
}

func (api *LocalizationAPI) handleContainerColumns(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	resp := containerColumnsResponse{
		Types:   api.registry.GetRegisteredContainerTypeTags(),
		Columns: api.registry.GetAllAvailableColumnDefinitions(),
	}
	if resp.Types == nil {
		resp.Types = []string{}
	}
	if resp.Columns == nil {
		resp.Columns = []interfaces.ContainerColumn{}
	}
	writeJSON(w, http.StatusOK, resp)
}

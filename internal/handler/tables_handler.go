package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

type TablesResponse struct {
	CountTables int `json:"countTables"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Ready  bool   `json:"ready"`
}

func (h *Handlers) HomeHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, MessageResponse{Message: "JCB community API"}, http.StatusOK)
}

// HealthHandler reports 503 until every migrated table exists.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ready, err := h.TablesService.Ready(r.Context())
	if err != nil {
		h.Logger.Warn("health check failed", zap.Error(err))
		writeSuccess(w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}
	if !ready {
		writeSuccess(w, HealthResponse{Status: "migrating"}, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, HealthResponse{Status: "ok", Ready: true}, http.StatusOK)
}

func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.CountTables(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, TablesResponse{count}, http.StatusOK)
}

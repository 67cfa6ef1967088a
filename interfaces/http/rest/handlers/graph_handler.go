package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"papergraph/application/queries"
	querybus "papergraph/application/queries/bus"
	pkgerrors "papergraph/pkg/errors"
)

// GraphHandler serves the current graph payload and analysis stats
type GraphHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// GetGraph handles GET /api/graph. Before the first analysis the body is
// JSON null, not an error.
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetGraphDataQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetStats handles GET /api/stats. Null until the first analysis completes.
func (h *GraphHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetStatsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *GraphHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

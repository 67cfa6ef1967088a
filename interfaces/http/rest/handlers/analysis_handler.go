package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"papergraph/application/commands"
	commandbus "papergraph/application/commands/bus"
	"papergraph/application/queries"
	querybus "papergraph/application/queries/bus"
	pkgerrors "papergraph/pkg/errors"
)

// AnalysisHandler triggers analysis runs over the command bus
type AnalysisHandler struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errors,
		logger:     logger,
	}
}

// analyzeResponse is the payload the frontend and agent clients consume
// after a successful run
type analyzeResponse struct {
	Success          bool                        `json:"success"`
	PapersCount      int                         `json:"papersCount"`
	ConnectionsCount int                         `json:"connectionsCount"`
	AnalyzerType     string                      `json:"analyzerType"`
	GraphData        *queries.GetGraphDataResult `json:"graphData"`
}

// Analyze handles POST /api/analyze. A run already in flight responds 409;
// the request is not queued.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := h.commandBus.Send(r.Context(), commands.AnalyzeCorpusCommand{}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	response := analyzeResponse{Success: true}

	statsResult, err := h.queryBus.Ask(r.Context(), queries.GetStatsQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if stats, ok := statsResult.(*queries.GetStatsResult); ok && stats != nil {
		response.PapersCount = stats.PapersCount
		response.ConnectionsCount = stats.ConnectionsCount
		response.AnalyzerType = stats.AnalyzerType
	}

	graphResult, err := h.queryBus.Ask(r.Context(), queries.GetGraphDataQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if data, ok := graphResult.(*queries.GetGraphDataResult); ok {
		response.GraphData = data
	}

	h.respondJSON(w, http.StatusOK, response)
}

func (h *AnalysisHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"papergraph/application/queries"
	querybus "papergraph/application/queries/bus"
	pkgerrors "papergraph/pkg/errors"
	"papergraph/pkg/utils"
)

// RagHandler serves the three graph-aware query operations
type RagHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewRagHandler creates a new rag handler
func NewRagHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *RagHandler {
	return &RagHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

type ragQueryRequest struct {
	Query   string          `json:"query" validate:"required,min=1,max=500"`
	Options ragQueryOptions `json:"options"`
}

type ragQueryOptions struct {
	MaxResults int `json:"maxResults" validate:"gte=0,lte=100"`

	// Pointer distinguishes an explicit false from an absent field. Absent
	// means true: graph expansion is the default behavior.
	UseGraphStructure *bool `json:"useGraphStructure"`
}

// Query handles POST /api/rag/query
func (h *RagHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req ragQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("invalid JSON body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	useGraph := true
	if req.Options.UseGraphStructure != nil {
		useGraph = *req.Options.UseGraphStructure
	}

	result, err := h.queryBus.Ask(r.Context(), queries.RagQuery{
		Text:              req.Query,
		MaxResults:        req.Options.MaxResults,
		UseGraphStructure: useGraph,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ExploreConcept handles GET /api/rag/concept/{concept}?depth=
func (h *RagHandler) ExploreConcept(w http.ResponseWriter, r *http.Request) {
	depth := 0
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("depth must be an integer"))
			return
		}
		depth = parsed
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ExploreConceptQuery{
		Concept: chi.URLParam(r, "concept"),
		Depth:   depth,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// FindPaths handles GET /api/rag/paths/{sourceID}/{targetID}?maxHops=
func (h *RagHandler) FindPaths(w http.ResponseWriter, r *http.Request) {
	sourceID, err := strconv.Atoi(chi.URLParam(r, "sourceID"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("source id must be an integer"))
		return
	}
	targetID, err := strconv.Atoi(chi.URLParam(r, "targetID"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("target id must be an integer"))
		return
	}

	maxHops := 0
	if raw := r.URL.Query().Get("maxHops"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("maxHops must be an integer"))
			return
		}
		maxHops = parsed
	}

	result, err := h.queryBus.Ask(r.Context(), queries.FindPathsQuery{
		SourceID: sourceID,
		TargetID: targetID,
		MaxHops:  maxHops,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *RagHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

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
)

// PaperHandler serves the paper list, title search, and per-paper
// recommendations
type PaperHandler struct {
	queryBus *querybus.QueryBus
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(queryBus *querybus.QueryBus, errors *pkgerrors.ErrorHandler, logger *zap.Logger) *PaperHandler {
	return &PaperHandler{
		queryBus: queryBus,
		errors:   errors,
		logger:   logger,
	}
}

// ListPapers handles GET /api/papers. Before analysis the papers carry empty
// concepts and the uncategorized domain.
func (h *PaperHandler) ListPapers(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListPapersQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Search handles GET /api/search?query=
func (h *PaperHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.SearchPapersQuery{
		Text: r.URL.Query().Get("query"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// Recommendations handles GET /api/recommendations/{paperID}
func (h *PaperHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	paperID, err := strconv.Atoi(chi.URLParam(r, "paperID"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.NewValidationError("paper id must be an integer"))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetRecommendationsQuery{PaperID: paperID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *PaperHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

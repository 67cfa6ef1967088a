package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/queries"
)

// SearchPapersHandler answers simple substring searches over the analyzed
// corpus. This is a plain filter, not the GraphRAG ranking.
type SearchPapersHandler struct {
	store  ports.SnapshotStore
	logger *zap.Logger
}

// NewSearchPapersHandler creates a new search handler
func NewSearchPapersHandler(store ports.SnapshotStore, logger *zap.Logger) *SearchPapersHandler {
	return &SearchPapersHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the search. Before the first analysis the result is empty
// rather than an error.
func (h *SearchPapersHandler) Handle(ctx context.Context, query queries.SearchPapersQuery) (*queries.SearchPapersResult, error) {
	result := &queries.SearchPapersResult{
		Query:  query.Text,
		Papers: []queries.Paper{},
	}

	snapshot := h.store.Current()
	if snapshot == nil {
		return result, nil
	}

	needle := strings.ToLower(strings.TrimSpace(query.Text))

	for _, paper := range snapshot.Graph.Papers() {
		if strings.Contains(strings.ToLower(paper.Title()), needle) {
			result.Papers = append(result.Papers, paperDTO(paper))
			continue
		}
		for _, concept := range paper.Concepts().Members() {
			if strings.Contains(concept, needle) {
				result.Papers = append(result.Papers, paperDTO(paper))
				break
			}
		}
	}

	h.logger.Debug("Paper search completed",
		zap.String("query", query.Text),
		zap.Int("matches", len(result.Papers)),
	)

	return result, nil
}

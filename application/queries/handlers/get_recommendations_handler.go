package handlers

import (
	"context"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/queries"
)

// GetRecommendationsHandler lists the papers most related to one paper
type GetRecommendationsHandler struct {
	store  ports.SnapshotStore
	logger *zap.Logger
}

// NewGetRecommendationsHandler creates a new recommendations handler
func NewGetRecommendationsHandler(store ports.SnapshotStore, logger *zap.Logger) *GetRecommendationsHandler {
	return &GetRecommendationsHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the recommendations query. An unknown paper id yields an
// empty list, not an error. Neighbors come back strongest edge first.
func (h *GetRecommendationsHandler) Handle(ctx context.Context, query queries.GetRecommendationsQuery) (*queries.GetRecommendationsResult, error) {
	snapshot, err := currentSnapshot(h.store)
	if err != nil {
		return nil, err
	}
	graph := snapshot.Graph

	result := &queries.GetRecommendationsResult{
		PaperID:         query.PaperID,
		Recommendations: []queries.Recommendation{},
	}

	for _, neighbor := range graph.Neighbors(query.PaperID) {
		paper, ok := graph.Paper(neighbor.PaperID)
		if !ok {
			continue
		}
		result.Recommendations = append(result.Recommendations, queries.Recommendation{
			ID:             paper.ID(),
			Title:          paper.Title(),
			Link:           paper.Link(),
			Domain:         paper.Domain(),
			Score:          neighbor.Edge.Score,
			Tier:           string(neighbor.Edge.Tier),
			SharedConcepts: neighbor.Edge.SharedConcepts.Members(),
		})
	}

	h.logger.Debug("Recommendations computed",
		zap.Int("paperId", query.PaperID),
		zap.Int("count", len(result.Recommendations)),
	)

	return result, nil
}

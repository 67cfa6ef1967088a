package handlers

import (
	"context"

	"papergraph/application/ports"
	"papergraph/application/queries"
)

// GetStatsHandler reports the stats of the last published analysis
type GetStatsHandler struct {
	store ports.SnapshotStore
}

// NewGetStatsHandler creates a new stats handler
func NewGetStatsHandler(store ports.SnapshotStore) *GetStatsHandler {
	return &GetStatsHandler{store: store}
}

// Handle executes the stats query. A nil result means no analysis has run.
func (h *GetStatsHandler) Handle(ctx context.Context, query queries.GetStatsQuery) (*queries.GetStatsResult, error) {
	snapshot := h.store.Current()
	if snapshot == nil {
		return nil, nil
	}
	graph := snapshot.Graph

	concepts := make(map[string]bool)
	for _, paper := range graph.Papers() {
		for _, concept := range paper.Concepts().Members() {
			concepts[concept] = true
		}
	}

	return &queries.GetStatsResult{
		RunID:            snapshot.RunID,
		PapersCount:      graph.PaperCount(),
		ConceptsCount:    len(concepts),
		ConnectionsCount: graph.EdgeCount(),
		HubCount:         graph.HubCount(),
		ClusterCount:     graph.ClusterCount(),
		Density:          graph.Density(),
		AnalyzerType:     snapshot.AnalyzerType,
		AnalyzedAt:       snapshot.AnalyzedAt,
		DurationMillis:   snapshot.Duration.Milliseconds(),
	}, nil
}

package handlers

import (
	"context"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/queries"
)

// GetGraphDataHandler handles graph data visualization queries
type GetGraphDataHandler struct {
	store  ports.SnapshotStore
	logger *zap.Logger
}

// NewGetGraphDataHandler creates a new graph data handler
func NewGetGraphDataHandler(store ports.SnapshotStore, logger *zap.Logger) *GetGraphDataHandler {
	return &GetGraphDataHandler{
		store:  store,
		logger: logger,
	}
}

// Handle executes the graph data query. A nil result (JSON null) means no
// analysis has been published yet.
func (h *GetGraphDataHandler) Handle(ctx context.Context, query queries.GetGraphDataQuery) (*queries.GetGraphDataResult, error) {
	snapshot := h.store.Current()
	if snapshot == nil {
		return nil, nil
	}
	graph := snapshot.Graph

	result := &queries.GetGraphDataResult{
		Nodes: make([]queries.GraphNode, 0, graph.PaperCount()),
		Edges: make([]queries.GraphEdge, 0, graph.EdgeCount()),
		Stats: queries.GraphStats{
			NodeCount:    graph.PaperCount(),
			EdgeCount:    graph.EdgeCount(),
			HubCount:     graph.HubCount(),
			ClusterCount: graph.ClusterCount(),
			Density:      graph.Density(),
		},
	}

	for _, paper := range graph.Papers() {
		result.Nodes = append(result.Nodes, queries.GraphNode{
			ID:       paper.ID(),
			Title:    paper.Title(),
			Link:     paper.Link(),
			Concepts: paper.Concepts().Members(),
			Domain:   paper.Domain(),
			Degree:   graph.Degree(paper.ID()),
			IsHub:    graph.IsHub(paper.ID()),
		})
	}

	for _, edge := range graph.Edges() {
		result.Edges = append(result.Edges, queries.GraphEdge{
			Source:         edge.SourceID,
			Target:         edge.TargetID,
			Score:          edge.Score,
			Tier:           string(edge.Tier),
			SharedConcepts: edge.SharedConcepts.Members(),
		})
	}

	h.logger.Debug("Graph data retrieved",
		zap.Int("nodeCount", result.Stats.NodeCount),
		zap.Int("edgeCount", result.Stats.EdgeCount),
	)

	return result, nil
}

package handlers

import (
	"context"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/queries"
	"papergraph/domain/config"
)

// FindPathsHandler answers bounded path-finding queries between two papers
type FindPathsHandler struct {
	store  ports.SnapshotStore
	cfg    *config.ScoringConfig
	logger *zap.Logger
}

// NewFindPathsHandler creates a new path finding handler
func NewFindPathsHandler(store ports.SnapshotStore, cfg *config.ScoringConfig, logger *zap.Logger) *FindPathsHandler {
	return &FindPathsHandler{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Handle executes the path query. Unknown endpoints or no path within the
// bound yield an empty path list, not an error.
func (h *FindPathsHandler) Handle(ctx context.Context, query queries.FindPathsQuery) (*queries.FindPathsResult, error) {
	snapshot, err := currentSnapshot(h.store)
	if err != nil {
		return nil, err
	}
	graph := snapshot.Graph

	maxHops := query.MaxHops
	if maxHops == 0 {
		maxHops = h.cfg.DefaultMaxHops
	}

	walks := graph.ShortestPaths(query.SourceID, query.TargetID, maxHops, h.cfg.MaxPathsPerQuery)

	result := &queries.FindPathsResult{
		SourceID: query.SourceID,
		TargetID: query.TargetID,
		Paths:    make([]queries.Path, 0, len(walks)),
	}

	for _, walk := range walks {
		path := queries.Path{
			Papers: make([]queries.PathPaper, 0, len(walk)),
			Steps:  make([]queries.PathStep, 0, len(walk)-1),
			Length: len(walk) - 1,
		}

		for _, id := range walk {
			paper, ok := graph.Paper(id)
			if !ok {
				continue
			}
			path.Papers = append(path.Papers, queries.PathPaper{ID: paper.ID(), Title: paper.Title()})
		}

		for i := 1; i < len(walk); i++ {
			edge, ok := graph.EdgeBetween(walk[i-1], walk[i])
			if !ok {
				continue
			}
			path.Steps = append(path.Steps, queries.PathStep{
				Source:         walk[i-1],
				Target:         walk[i],
				Score:          edge.Score,
				Tier:           string(edge.Tier),
				SharedConcepts: edge.SharedConcepts.Members(),
			})
		}

		result.Paths = append(result.Paths, path)
	}

	h.logger.Debug("Path search completed",
		zap.Int("sourceId", query.SourceID),
		zap.Int("targetId", query.TargetID),
		zap.Int("maxHops", maxHops),
		zap.Int("paths", len(result.Paths)),
	)

	return result, nil
}

package handlers

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/queries"
	"papergraph/domain/config"
)

// ExploreConceptHandler answers concept neighborhood queries
type ExploreConceptHandler struct {
	store  ports.SnapshotStore
	cfg    *config.ScoringConfig
	logger *zap.Logger
}

// NewExploreConceptHandler creates a new concept exploration handler
func NewExploreConceptHandler(store ports.SnapshotStore, cfg *config.ScoringConfig, logger *zap.Logger) *ExploreConceptHandler {
	return &ExploreConceptHandler{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Handle executes the concept neighborhood query. A concept matching no
// paper yields an empty neighborhood, not an error.
func (h *ExploreConceptHandler) Handle(ctx context.Context, query queries.ExploreConceptQuery) (*queries.ExploreConceptResult, error) {
	snapshot, err := currentSnapshot(h.store)
	if err != nil {
		return nil, err
	}
	graph := snapshot.Graph

	depth := query.Depth
	if depth == 0 {
		depth = h.cfg.DefaultExploreDepth
	}

	concept := strings.ToLower(strings.TrimSpace(query.Concept))

	var seeds []int
	for _, paper := range graph.Papers() {
		if paper.HasConcept(concept) {
			seeds = append(seeds, paper.ID())
		}
	}

	distances := graph.HopDistances(seeds, depth)

	ids := make([]int, 0, len(distances))
	for id := range distances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if distances[ids[i]] != distances[ids[j]] {
			return distances[ids[i]] < distances[ids[j]]
		}
		return ids[i] < ids[j]
	})

	result := &queries.ExploreConceptResult{
		Concept: concept,
		Papers:  make([]queries.NeighborhoodItem, 0, len(ids)),
	}

	related := make(map[string]int)
	for _, id := range ids {
		paper, ok := graph.Paper(id)
		if !ok {
			continue
		}

		result.Papers = append(result.Papers, queries.NeighborhoodItem{
			ID:          paper.ID(),
			Title:       paper.Title(),
			Link:        paper.Link(),
			Domain:      paper.Domain(),
			Concepts:    paper.Concepts().Members(),
			HopDistance: distances[id],
		})

		for _, c := range paper.Concepts().Members() {
			if c == concept {
				continue
			}
			related[c]++
		}
	}

	result.Concepts = make([]queries.ConceptFrequency, 0, len(related))
	for c, count := range related {
		result.Concepts = append(result.Concepts, queries.ConceptFrequency{Concept: c, Count: count})
	}
	sort.Slice(result.Concepts, func(i, j int) bool {
		if result.Concepts[i].Count != result.Concepts[j].Count {
			return result.Concepts[i].Count > result.Concepts[j].Count
		}
		return result.Concepts[i].Concept < result.Concepts[j].Concept
	})

	h.logger.Debug("Concept neighborhood explored",
		zap.String("concept", concept),
		zap.Int("depth", depth),
		zap.Int("directMatches", len(seeds)),
		zap.Int("papers", len(result.Papers)),
	)

	return result, nil
}

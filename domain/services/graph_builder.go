package services

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"papergraph/domain/core/aggregates"
	"papergraph/domain/core/entities"
)

// GraphBuilder assembles scored edges and papers into an immutable graph
// snapshot, flagging hub papers by their degree percentile.
type GraphBuilder struct {
	hubQuantile float64
}

// NewGraphBuilder creates a builder. hubQuantile is the percentile of the
// degree distribution at or above which a paper counts as a hub.
func NewGraphBuilder(hubQuantile float64) *GraphBuilder {
	return &GraphBuilder{hubQuantile: hubQuantile}
}

// Build constructs the graph. The hub threshold is the empirical quantile of
// the degree distribution; ties are included, so every paper whose degree
// reaches the threshold is a hub. A corpus with no edges has no hubs.
func (gb *GraphBuilder) Build(papers []*entities.Paper, edges []*aggregates.Edge) (*aggregates.Graph, error) {
	return aggregates.NewGraph(papers, edges, gb.hubThreshold(papers, edges))
}

func (gb *GraphBuilder) hubThreshold(papers []*entities.Paper, edges []*aggregates.Edge) float64 {
	if len(papers) == 0 {
		return 0
	}

	degrees := make(map[int]int, len(papers))
	for _, paper := range papers {
		degrees[paper.ID()] = 0
	}
	for _, edge := range edges {
		degrees[edge.SourceID]++
		degrees[edge.TargetID]++
	}

	distribution := make([]float64, 0, len(degrees))
	for _, degree := range degrees {
		distribution = append(distribution, float64(degree))
	}
	sort.Float64s(distribution)

	return stat.Quantile(gb.hubQuantile, stat.Empirical, distribution, nil)
}

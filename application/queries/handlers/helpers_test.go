package handlers

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papergraph/application/ports"
	"papergraph/domain/config"
	"papergraph/domain/core/aggregates"
	"papergraph/domain/core/entities"
	"papergraph/domain/core/valueobjects"
	"papergraph/infrastructure/persistence/memory"
)

func handlerPaper(t *testing.T, id int, title, domain string, concepts ...string) *entities.Paper {
	t.Helper()

	paper, err := entities.NewPaper(id, title, fmt.Sprintf("https://example.org/%d", id))
	require.NoError(t, err)
	paper.SetAnalysis(valueobjects.NewConceptSet(concepts...), domain)
	return paper
}

func handlerEdge(t *testing.T, a, b int, score float64, tier aggregates.Tier, shared ...string) *aggregates.Edge {
	t.Helper()

	edge, err := aggregates.NewEdge(a, b, score, tier, valueobjects.NewConceptSet(shared...))
	require.NoError(t, err)
	return edge
}

// publishedStore builds a graph from the papers and edges and publishes it as
// the current snapshot of a fresh store
func publishedStore(t *testing.T, papers []*entities.Paper, edges []*aggregates.Edge) *memory.SnapshotStore {
	t.Helper()

	graph, err := aggregates.NewGraph(papers, edges, 2)
	require.NoError(t, err)

	store := memory.NewSnapshotStore()
	store.Publish(&ports.Snapshot{
		RunID:        "test-run",
		Graph:        graph,
		AnalyzerType: "local",
		AnalyzedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Duration:     125 * time.Millisecond,
	})
	return store
}

func TestBandFor(t *testing.T) {
	bands := config.DefaultScoringConfig().Bands

	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{name: "at high threshold", score: 0.80, want: "high"},
		{name: "above high threshold", score: 1.0, want: "high"},
		{name: "medium", score: 0.6, want: "medium"},
		{name: "at lower threshold", score: 0.30, want: "lower"},
		{name: "below every band", score: 0.1, want: "marginal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bandFor(tt.score, bands))
		})
	}
}

package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papergraph/application/queries"
	"papergraph/domain/core/aggregates"
	"papergraph/domain/core/entities"
	"papergraph/infrastructure/persistence/memory"
)

func TestGetStatsHandler_NilBeforeFirstAnalysis(t *testing.T) {
	// Arrange
	handler := NewGetStatsHandler(memory.NewSnapshotStore())

	// Act
	result, err := handler.Handle(context.Background(), queries.GetStatsQuery{})

	// Assert: nil without error marshals as JSON null
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGetStatsHandler_ReportsSnapshotStats(t *testing.T) {
	// Arrange
	papers := []*entities.Paper{
		handlerPaper(t, 1, "Bone Density Atlas", "musculoskeletal biology", "bone", "density"),
		handlerPaper(t, 2, "Osteoblast Bone Formation", "musculoskeletal biology", "bone", "osteoblast"),
		handlerPaper(t, 3, "Arabidopsis Gravitropism", "plant biology", "arabidopsis"),
	}
	edges := []*aggregates.Edge{
		handlerEdge(t, 1, 2, 0.33, aggregates.TierWeak, "bone"),
	}
	store := publishedStore(t, papers, edges)
	handler := NewGetStatsHandler(store)

	// Act
	result, err := handler.Handle(context.Background(), queries.GetStatsQuery{})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "test-run", result.RunID)
	assert.Equal(t, 3, result.PapersCount)
	// bone, density, osteoblast, arabidopsis
	assert.Equal(t, 4, result.ConceptsCount)
	assert.Equal(t, 1, result.ConnectionsCount)
	assert.Equal(t, 0, result.HubCount)
	assert.Equal(t, 2, result.ClusterCount)
	assert.InDelta(t, 1.0/3.0, result.Density, 1e-9)
	assert.Equal(t, "local", result.AnalyzerType)
	assert.Equal(t, store.Current().AnalyzedAt, result.AnalyzedAt)
	assert.Equal(t, int64(125), result.DurationMillis)
}

func TestGetStatsHandler_CountsConceptsOnce(t *testing.T) {
	// Arrange: the same concept on every paper counts once
	papers := []*entities.Paper{
		handlerPaper(t, 1, "First Bone Study", "musculoskeletal biology", "bone"),
		handlerPaper(t, 2, "Second Bone Study", "musculoskeletal biology", "bone"),
	}
	handler := NewGetStatsHandler(publishedStore(t, papers, nil))

	// Act
	result, err := handler.Handle(context.Background(), queries.GetStatsQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, result.ConceptsCount)
}

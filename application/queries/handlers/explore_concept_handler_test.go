package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papergraph/application/queries"
	"papergraph/domain/config"
	"papergraph/domain/core/aggregates"
	"papergraph/domain/core/entities"
	"papergraph/infrastructure/persistence/memory"
	pkgerrors "papergraph/pkg/errors"
)

// boneNeighborhoodStore publishes a graph where "bone" appears in papers 1
// and 2, paper 3 is one hop from paper 1, and paper 4 is two hops out
func boneNeighborhoodStore(t *testing.T) *memory.SnapshotStore {
	t.Helper()

	papers := []*entities.Paper{
		handlerPaper(t, 1, "Bone Density in Flight Mice", "musculoskeletal biology", "bone", "density"),
		handlerPaper(t, 2, "Bone Remodeling Pathways", "musculoskeletal biology", "bone", "remodeling"),
		handlerPaper(t, 3, "Calcium Signaling in Osteocytes", "cell biology", "density", "calcium"),
		handlerPaper(t, 4, "Calcium Cascade Review", "molecular biology", "calcium", "cascade"),
	}
	edges := []*aggregates.Edge{
		handlerEdge(t, 1, 3, 0.33, aggregates.TierWeak, "density"),
		handlerEdge(t, 3, 4, 0.33, aggregates.TierWeak, "calcium"),
	}
	return publishedStore(t, papers, edges)
}

func newExploreHandler(store *memory.SnapshotStore) *ExploreConceptHandler {
	return NewExploreConceptHandler(store, config.DefaultScoringConfig(), zap.NewNop())
}

func TestExploreConceptHandler_GraphNotReady(t *testing.T) {
	// Arrange
	handler := newExploreHandler(memory.NewSnapshotStore())

	// Act
	_, err := handler.Handle(context.Background(), queries.ExploreConceptQuery{Concept: "bone"})

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsPrecondition(err))
}

func TestExploreConceptHandler_NeighborhoodOrderedByDistance(t *testing.T) {
	// Arrange
	handler := newExploreHandler(boneNeighborhoodStore(t))

	// Act: zero depth falls back to the default of two hops
	result, err := handler.Handle(context.Background(), queries.ExploreConceptQuery{Concept: "bone"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "bone", result.Concept)

	require.Len(t, result.Papers, 4)
	assert.Equal(t, 1, result.Papers[0].ID)
	assert.Equal(t, 0, result.Papers[0].HopDistance)
	assert.Equal(t, 2, result.Papers[1].ID)
	assert.Equal(t, 0, result.Papers[1].HopDistance)
	assert.Equal(t, 3, result.Papers[2].ID)
	assert.Equal(t, 1, result.Papers[2].HopDistance)
	assert.Equal(t, 4, result.Papers[3].ID)
	assert.Equal(t, 2, result.Papers[3].HopDistance)

	first := result.Papers[0]
	assert.Equal(t, "Bone Density in Flight Mice", first.Title)
	assert.Equal(t, "https://example.org/1", first.Link)
	assert.Equal(t, "musculoskeletal biology", first.Domain)
	assert.Equal(t, []string{"bone", "density"}, first.Concepts)
}

func TestExploreConceptHandler_RelatedConceptsExcludeQueried(t *testing.T) {
	// Arrange
	handler := newExploreHandler(boneNeighborhoodStore(t))

	// Act
	result, err := handler.Handle(context.Background(), queries.ExploreConceptQuery{Concept: "bone"})

	// Assert: "bone" itself never appears, ties break alphabetically
	require.NoError(t, err)
	assert.Equal(t, []queries.ConceptFrequency{
		{Concept: "calcium", Count: 2},
		{Concept: "density", Count: 2},
		{Concept: "cascade", Count: 1},
		{Concept: "remodeling", Count: 1},
	}, result.Concepts)
}

func TestExploreConceptHandler_DepthBoundsExpansion(t *testing.T) {
	// Arrange
	handler := newExploreHandler(boneNeighborhoodStore(t))

	// Act
	result, err := handler.Handle(context.Background(), queries.ExploreConceptQuery{Concept: "bone", Depth: 1})

	// Assert: paper 4 sits two hops out and stays excluded
	require.NoError(t, err)
	require.Len(t, result.Papers, 3)
	assert.Equal(t, 3, result.Papers[2].ID)
}

func TestExploreConceptHandler_NormalizesConcept(t *testing.T) {
	// Arrange
	handler := newExploreHandler(boneNeighborhoodStore(t))

	// Act
	result, err := handler.Handle(context.Background(), queries.ExploreConceptQuery{Concept: "  BONE "})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "bone", result.Concept)
	assert.Len(t, result.Papers, 4)
}

func TestExploreConceptHandler_UnknownConceptYieldsEmptyNeighborhood(t *testing.T) {
	// Arrange
	handler := newExploreHandler(boneNeighborhoodStore(t))

	// Act
	result, err := handler.Handle(context.Background(), queries.ExploreConceptQuery{Concept: "photosynthesis"})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, result.Papers)
	assert.Empty(t, result.Concepts)
}

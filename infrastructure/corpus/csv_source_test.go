package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/pkg/errors"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "papers.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSource_LoadPreservesFileOrder(t *testing.T) {
	// Arrange
	path := writeCorpus(t, "Title,Link\n"+
		"Microgravity Effects on Bone Density,https://example.org/1\n"+
		"Plant Growth in Orbit,https://example.org/2\n"+
		"Radiation Response of Stem Cells,https://example.org/3\n")
	source := NewCSVSource(path, zap.NewNop())

	// Act
	records, err := source.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []ports.PaperRecord{
		{Title: "Microgravity Effects on Bone Density", Link: "https://example.org/1"},
		{Title: "Plant Growth in Orbit", Link: "https://example.org/2"},
		{Title: "Radiation Response of Stem Cells", Link: "https://example.org/3"},
	}, records)
}

func TestCSVSource_LoadToleratesBOMAndHeaderCasing(t *testing.T) {
	// Arrange
	path := writeCorpus(t, "﻿title,LINK\n"+
		"Spaceflight and Muscle Atrophy,https://example.org/1\n")
	source := NewCSVSource(path, zap.NewNop())

	// Act
	records, err := source.Load(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Spaceflight and Muscle Atrophy", records[0].Title)
	assert.Equal(t, "https://example.org/1", records[0].Link)
}

func TestCSVSource_LoadSkipsBlankTitles(t *testing.T) {
	// Arrange
	path := writeCorpus(t, "Title,Link\n"+
		",https://example.org/skipped\n"+
		"   ,https://example.org/whitespace\n"+
		"Kept Paper,https://example.org/kept\n")
	source := NewCSVSource(path, zap.NewNop())

	// Act
	records, err := source.Load(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Kept Paper", records[0].Title)
}

func TestCSVSource_LoadToleratesShortRows(t *testing.T) {
	// Arrange
	path := writeCorpus(t, "Title,Link\n"+
		"Paper Without Link\n")
	source := NewCSVSource(path, zap.NewNop())

	// Act
	records, err := source.Load(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Paper Without Link", records[0].Title)
	assert.Empty(t, records[0].Link)
}

func TestCSVSource_LoadFailsOnMissingFile(t *testing.T) {
	// Arrange
	source := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop())

	// Act
	records, err := source.Load(context.Background())

	// Assert
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.IsConfiguration(err))
}

func TestCSVSource_LoadFailsOnEmptyCorpus(t *testing.T) {
	// Arrange
	path := writeCorpus(t, "Title,Link\n")
	source := NewCSVSource(path, zap.NewNop())

	// Act
	records, err := source.Load(context.Background())

	// Assert
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.IsConfiguration(err))
}

package queries

import (
	"strings"

	pkgerrors "papergraph/pkg/errors"
)

// ExploreConceptQuery asks for the neighborhood of a single concept
type ExploreConceptQuery struct {
	Concept string
	// Depth bounds the hop expansion; zero means the configured default
	Depth int
}

// Validate validates the query
func (q ExploreConceptQuery) Validate() error {
	if strings.TrimSpace(q.Concept) == "" {
		return pkgerrors.NewValidationError("concept is required")
	}
	if q.Depth < 0 || q.Depth > 10 {
		return pkgerrors.NewValidationError("depth must be between 0 and 10")
	}
	return nil
}

// ExploreConceptResult is the neighborhood around one concept. An unknown
// concept yields empty papers, not an error.
type ExploreConceptResult struct {
	Concept  string             `json:"concept"`
	Papers   []NeighborhoodItem `json:"papers"`
	Concepts []ConceptFrequency `json:"concepts"`
}

// NeighborhoodItem is one paper in a concept neighborhood with its hop
// distance from the direct matches
type NeighborhoodItem struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Domain      string   `json:"domain"`
	Concepts    []string `json:"concepts"`
	HopDistance int      `json:"hopDistance"`
}

// ConceptFrequency counts how often a related concept appears across the
// neighborhood papers
type ConceptFrequency struct {
	Concept string `json:"concept"`
	Count   int    `json:"count"`
}

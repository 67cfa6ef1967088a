package queries

import (
	pkgerrors "papergraph/pkg/errors"
)

// GetRecommendationsQuery asks for the papers most related to one paper
type GetRecommendationsQuery struct {
	PaperID int
}

// Validate validates the query
func (q GetRecommendationsQuery) Validate() error {
	if q.PaperID < 1 {
		return pkgerrors.NewValidationError("paperId must be a positive paper id")
	}
	return nil
}

// GetRecommendationsResult lists a paper's neighbors strongest edge first.
// An unknown paper id yields an empty list, not an error.
type GetRecommendationsResult struct {
	PaperID         int              `json:"paperId"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommendation is one related paper with the edge that links it
type Recommendation struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	Domain         string   `json:"domain"`
	Score          float64  `json:"score"`
	Tier           string   `json:"tier"`
	SharedConcepts []string `json:"sharedConcepts"`
}

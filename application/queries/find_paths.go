package queries

import (
	pkgerrors "papergraph/pkg/errors"
)

// FindPathsQuery asks for shortest connection paths between two papers
type FindPathsQuery struct {
	SourceID int
	TargetID int
	// MaxHops bounds the search; zero means the configured default
	MaxHops int
}

// Validate validates the query
func (q FindPathsQuery) Validate() error {
	if q.SourceID < 1 {
		return pkgerrors.NewValidationError("sourceId must be a positive paper id")
	}
	if q.TargetID < 1 {
		return pkgerrors.NewValidationError("targetId must be a positive paper id")
	}
	if q.MaxHops < 0 || q.MaxHops > 10 {
		return pkgerrors.NewValidationError("maxHops must be between 1 and 10")
	}
	return nil
}

// FindPathsResult lists every shortest path found within the hop bound.
// Unknown endpoints or no path yield an empty list, not an error.
type FindPathsResult struct {
	SourceID int    `json:"sourceId"`
	TargetID int    `json:"targetId"`
	Paths    []Path `json:"paths"`
}

// Path is one ordered walk through the graph. Steps has one entry per edge
// traversed, so a trivial source==target path has a single paper and no steps.
type Path struct {
	Papers []PathPaper `json:"papers"`
	Steps  []PathStep  `json:"steps"`
	Length int         `json:"length"`
}

// PathPaper identifies one paper along a path
type PathPaper struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// PathStep describes the edge between two consecutive path papers
type PathStep struct {
	Source         int      `json:"source"`
	Target         int      `json:"target"`
	Score          float64  `json:"score"`
	Tier           string   `json:"tier"`
	SharedConcepts []string `json:"sharedConcepts"`
}

package queries

import (
	"strings"

	pkgerrors "papergraph/pkg/errors"
)

// SearchPapersQuery is a simple substring search over titles and concepts,
// not the GraphRAG ranking
type SearchPapersQuery struct {
	Text string
}

// Validate validates the query
func (q SearchPapersQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return pkgerrors.NewValidationError("query is required")
	}
	return nil
}

// SearchPapersResult lists papers whose title or concepts contain the text
type SearchPapersResult struct {
	Query  string  `json:"query"`
	Papers []Paper `json:"papers"`
}

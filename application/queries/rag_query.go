package queries

import (
	"strings"

	pkgerrors "papergraph/pkg/errors"
)

// RagQuery represents a semantic query against the paper graph
type RagQuery struct {
	Text string
	// MaxResults caps the ranked result set; zero means the configured default
	MaxResults int
	// UseGraphStructure enables hop expansion beyond direct concept matches
	UseGraphStructure bool
}

// Validate validates the query
func (q RagQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return pkgerrors.ErrEmptyQuery()
	}
	if q.MaxResults < 0 || q.MaxResults > 100 {
		return pkgerrors.NewValidationError("maxResults must be between 1 and 100")
	}
	return nil
}

// RagQueryResult is the ranked answer to a semantic query
type RagQueryResult struct {
	Query   string        `json:"query"`
	Results []RankedPaper `json:"results"`
	Insight *Insight      `json:"insights,omitempty"`
}

// RankedPaper is one ranked result item with its reasoning trace
type RankedPaper struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	Domain         string   `json:"domain"`
	Concepts       []string `json:"concepts"`
	RelevanceScore float64  `json:"relevanceScore"`
	RelevanceBand  string   `json:"relevanceBand"`
	HopDistance    int      `json:"hopDistance"`
	Reasoning      []string `json:"reasoning"`
}

// Insight summarizes a ranked result set. Themes and domains are computed
// from the results themselves; Content is provider-generated and empty when
// no provider is available.
type Insight struct {
	Content string        `json:"content"`
	Themes  []string      `json:"themes"`
	Domains []DomainShare `json:"domains"`
}

// DomainShare is how often one domain appears among the ranked results
type DomainShare struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

package mcp

// --- Tool Arguments ---

type QueryPapersArgs struct {
	Query             string `json:"query" jsonschema:"The research question or topic to search for,required"`
	MaxResults        int    `json:"max_results,omitempty" jsonschema:"Max number of ranked papers (default 10)"`
	DirectMatchesOnly bool   `json:"direct_matches_only,omitempty" jsonschema:"description=If true, rank only papers whose concepts overlap the query instead of also following graph connections."`
}

type QueryPapersResult struct {
	Results []string `json:"results"` // Formatted strings for the LLM
	Insight string   `json:"insight,omitempty"`
}

type ExploreConceptArgs struct {
	Concept string `json:"concept" jsonschema:"The concept to explore (e.g. 'microgravity'),required"`
	Depth   int    `json:"depth,omitempty" jsonschema:"How many connection hops to follow beyond the direct matches (default 2)"`
}

type ExploreConceptResult struct {
	Description string `json:"description"` // Textual description of the neighborhood
}

type FindPathsArgs struct {
	SourceID int `json:"source_id" jsonschema:"description=Paper id of the starting point,required"`
	TargetID int `json:"target_id" jsonschema:"description=Paper id of the destination,required"`
	MaxHops  int `json:"max_hops,omitempty" jsonschema:"Longest path length to consider (default 3)"`
}

type FindPathsResult struct {
	Paths []string `json:"paths"` // "A --(shared concepts)--> B" chains
}

type AnalyzeCorpusArgs struct{}

type AnalyzeCorpusResult struct {
	Status       string `json:"status"`
	Papers       int    `json:"papers"`
	Connections  int    `json:"connections"`
	AnalyzerType string `json:"analyzer_type"`
}

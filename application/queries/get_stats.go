package queries

import "time"

// GetStatsQuery asks for the stats of the last published analysis
type GetStatsQuery struct{}

// Validate validates the query
func (q GetStatsQuery) Validate() error {
	return nil
}

// GetStatsResult describes the last analysis run. A nil result (JSON null)
// means no analysis has been published yet.
type GetStatsResult struct {
	RunID            string    `json:"runId"`
	PapersCount      int       `json:"papersCount"`
	ConceptsCount    int       `json:"conceptsCount"`
	ConnectionsCount int       `json:"connectionsCount"`
	HubCount         int       `json:"hubCount"`
	ClusterCount     int       `json:"clusterCount"`
	Density          float64   `json:"density"`
	AnalyzerType     string    `json:"analyzerType"`
	AnalyzedAt       time.Time `json:"analyzedAt"`
	DurationMillis   int64     `json:"durationMs"`
}

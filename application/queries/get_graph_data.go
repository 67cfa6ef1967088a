package queries

// GetGraphDataQuery represents a query for full graph visualization data
type GetGraphDataQuery struct{}

// Validate validates the query
func (q GetGraphDataQuery) Validate() error {
	return nil
}

// GetGraphDataResult is the complete graph payload, shaped for a
// force-directed front end. A nil result (JSON null) means no analysis has
// been published yet.
type GetGraphDataResult struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
	Stats GraphStats  `json:"stats"`
}

// GraphNode is one paper in the visualization payload
type GraphNode struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Concepts []string `json:"concepts"`
	Domain   string   `json:"domain"`
	Degree   int      `json:"degree"`
	IsHub    bool     `json:"isHub"`
}

// GraphEdge is one scored connection in the visualization payload
type GraphEdge struct {
	Source         int      `json:"source"`
	Target         int      `json:"target"`
	Score          float64  `json:"score"`
	Tier           string   `json:"tier"`
	SharedConcepts []string `json:"sharedConcepts"`
}

// GraphStats contains graph statistics
type GraphStats struct {
	NodeCount    int     `json:"nodeCount"`
	EdgeCount    int     `json:"edgeCount"`
	HubCount     int     `json:"hubCount"`
	ClusterCount int     `json:"clusterCount"`
	Density      float64 `json:"density"`
}

package queries

// ListPapersQuery asks for the full paper collection. Before the first
// analysis the papers carry empty concepts and an uncategorized domain.
type ListPapersQuery struct{}

// Validate validates the query
func (q ListPapersQuery) Validate() error {
	return nil
}

// ListPapersResult is the full paper collection
type ListPapersResult struct {
	Papers []Paper `json:"papers"`
	Count  int     `json:"count"`
}

// Paper is the wire representation of one paper
type Paper struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Link     string   `json:"link"`
	Concepts []string `json:"concepts"`
	Domain   string   `json:"domain"`
}

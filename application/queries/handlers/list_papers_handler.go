package handlers

import (
	"context"

	"papergraph/application/ports"
	"papergraph/application/queries"
	"papergraph/domain/core/entities"
)

// ListPapersHandler serves the full paper collection. Before the first
// analysis it falls back to the raw corpus records, so the listing works as
// soon as the process is up.
type ListPapersHandler struct {
	store   ports.SnapshotStore
	records []ports.PaperRecord
}

// NewListPapersHandler creates a new paper listing handler
func NewListPapersHandler(store ports.SnapshotStore, records []ports.PaperRecord) *ListPapersHandler {
	return &ListPapersHandler{
		store:   store,
		records: records,
	}
}

// Handle executes the listing query
func (h *ListPapersHandler) Handle(ctx context.Context, query queries.ListPapersQuery) (*queries.ListPapersResult, error) {
	snapshot := h.store.Current()

	if snapshot != nil {
		papers := snapshot.Graph.Papers()
		result := &queries.ListPapersResult{
			Papers: make([]queries.Paper, 0, len(papers)),
			Count:  len(papers),
		}
		for _, paper := range papers {
			result.Papers = append(result.Papers, paperDTO(paper))
		}
		return result, nil
	}

	// Ids match what analysis will assign: 1-based in file order.
	result := &queries.ListPapersResult{
		Papers: make([]queries.Paper, 0, len(h.records)),
		Count:  len(h.records),
	}
	for i, record := range h.records {
		result.Papers = append(result.Papers, queries.Paper{
			ID:       i + 1,
			Title:    record.Title,
			Link:     record.Link,
			Concepts: []string{},
			Domain:   entities.DomainUncategorized,
		})
	}
	return result, nil
}

package handlers

import (
	"papergraph/application/ports"
	"papergraph/application/queries"
	"papergraph/domain/config"
	"papergraph/domain/core/entities"
	pkgerrors "papergraph/pkg/errors"
)

// currentSnapshot returns the published snapshot or the precondition error
// every graph-dependent query shares
func currentSnapshot(store ports.SnapshotStore) (*ports.Snapshot, error) {
	snapshot := store.Current()
	if snapshot == nil {
		return nil, pkgerrors.ErrGraphNotReady()
	}
	return snapshot, nil
}

// paperDTO maps a paper entity onto its wire representation
func paperDTO(paper *entities.Paper) queries.Paper {
	return queries.Paper{
		ID:       paper.ID(),
		Title:    paper.Title(),
		Link:     paper.Link(),
		Concepts: paper.Concepts().Members(),
		Domain:   paper.Domain(),
	}
}

// bandFor classifies a relevance score for display. Bands are a separate
// scale from edge tiers.
func bandFor(score float64, bands config.RelevanceBands) string {
	switch {
	case score >= bands.High:
		return "high"
	case score >= bands.Medium:
		return "medium"
	case score >= bands.Lower:
		return "lower"
	default:
		return "marginal"
	}
}

package services

import (
	"papergraph/domain/config"
	"papergraph/domain/core/aggregates"
	"papergraph/domain/core/entities"
	"papergraph/domain/core/valueobjects"
)

// ConnectionScorer computes concept overlap between papers and turns it into
// tiered edges
type ConnectionScorer struct {
	tiers config.TierThresholds
}

// NewConnectionScorer creates a scorer with the given tier thresholds
func NewConnectionScorer(tiers config.TierThresholds) *ConnectionScorer {
	return &ConnectionScorer{tiers: tiers}
}

// Score produces one edge per unordered pair of papers whose concept overlap
// reaches the weak threshold. Papers with empty concept sets never connect.
//
// This is a full O(n^2) pairwise pass over the papers. It is the dominant
// cost of an analysis run and bounds the corpus size usable interactively.
func (cs *ConnectionScorer) Score(papers []*entities.Paper) ([]*aggregates.Edge, error) {
	var edges []*aggregates.Edge

	for i, a := range papers {
		for _, b := range papers[i+1:] {
			score := cs.Jaccard(a.Concepts(), b.Concepts())
			tier, ok := cs.TierFor(score)
			if !ok {
				continue
			}

			edge, err := aggregates.NewEdge(a.ID(), b.ID(), score, tier, a.Concepts().Intersect(b.Concepts()))
			if err != nil {
				return nil, err
			}
			edges = append(edges, edge)
		}
	}

	return edges, nil
}

// Jaccard computes |intersection| / |union| over two concept sets. Two empty
// sets score 0, not 1.
func (cs *ConnectionScorer) Jaccard(a, b valueobjects.ConceptSet) float64 {
	union := a.UnionSize(b)
	if union == 0 {
		return 0
	}
	return float64(a.Intersect(b).Size()) / float64(union)
}

// TierFor classifies a similarity score. The second return is false when the
// score falls below the weak threshold and no edge should exist.
func (cs *ConnectionScorer) TierFor(score float64) (aggregates.Tier, bool) {
	switch {
	case score >= cs.tiers.Strong:
		return aggregates.TierStrong, true
	case score >= cs.tiers.Medium:
		return aggregates.TierMedium, true
	case score >= cs.tiers.Weak:
		return aggregates.TierWeak, true
	default:
		return "", false
	}
}

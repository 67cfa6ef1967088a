package entities

import (
	"strings"

	"papergraph/domain/core/valueobjects"
	pkgerrors "papergraph/pkg/errors"
)

// DomainUncategorized is the domain label for papers whose concepts match no
// known research area.
const DomainUncategorized = "uncategorized"

// Paper is the main entity representing one ingested research paper.
// Identity is a stable 1-based integer assigned in ingestion order; concepts
// and domain are populated by an analysis run and overwritten by the next one.
type Paper struct {
	// Private fields ensure encapsulation
	id       int
	title    string
	link     string
	concepts valueobjects.ConceptSet
	domain   string
}

// NewPaper creates a paper with validation. Concepts start empty and the
// domain starts uncategorized until an analysis run fills them in.
func NewPaper(id int, title, link string) (*Paper, error) {
	if id < 1 {
		return nil, pkgerrors.NewValidationError("paper id must be a positive integer")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, pkgerrors.NewValidationError("paper title cannot be empty")
	}

	return &Paper{
		id:       id,
		title:    title,
		link:     strings.TrimSpace(link),
		concepts: valueobjects.NewConceptSet(),
		domain:   DomainUncategorized,
	}, nil
}

// ReconstructPaper rebuilds a paper with analysis results already attached.
func ReconstructPaper(id int, title, link string, concepts valueobjects.ConceptSet, domain string) (*Paper, error) {
	paper, err := NewPaper(id, title, link)
	if err != nil {
		return nil, err
	}
	paper.SetAnalysis(concepts, domain)
	return paper, nil
}

// ID returns the paper's stable identifier
func (p *Paper) ID() int {
	return p.id
}

// Title returns the paper's title
func (p *Paper) Title() string {
	return p.title
}

// Link returns the paper's external URL. The core does not validate it.
func (p *Paper) Link() string {
	return p.link
}

// Concepts returns the paper's concept set
func (p *Paper) Concepts() valueobjects.ConceptSet {
	return p.concepts
}

// Domain returns the paper's research domain label
func (p *Paper) Domain() string {
	return p.domain
}

// HasConcept reports whether the paper carries the given concept
func (p *Paper) HasConcept(concept string) bool {
	return p.concepts.Contains(concept)
}

// SetAnalysis overwrites the paper's concepts and domain with the results of
// an analysis run. An empty domain falls back to uncategorized.
func (p *Paper) SetAnalysis(concepts valueobjects.ConceptSet, domain string) {
	p.concepts = concepts

	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = DomainUncategorized
	}
	p.domain = domain
}

// Clone returns an independent copy. Analysis runs clone the corpus so the
// published snapshot never shares papers with an in-flight re-analysis.
func (p *Paper) Clone() *Paper {
	clone := *p
	clone.concepts = valueobjects.NewConceptSet(p.concepts.Members()...)
	return &clone
}

package services

import (
	"strings"
	"unicode"

	"papergraph/domain/core/entities"
	"papergraph/domain/core/valueobjects"
)

// ConceptExtractor derives concept sets from free text and assigns a domain
// label to a concept set. Implementations must be deterministic for the same
// input so repeated analyses of an unchanged corpus produce identical graphs.
type ConceptExtractor interface {
	// ExtractConcepts turns text into a normalized concept set
	ExtractConcepts(text string) valueobjects.ConceptSet

	// ClassifyDomain maps a concept set onto a domain label
	ClassifyDomain(concepts valueobjects.ConceptSet) string
}

// domainRule maps one concept token onto a domain label. Rules are checked
// in declaration order and the first hit wins.
type domainRule struct {
	concept string
	domain  string
}

// LocalConceptExtractor is the deterministic extractor. It tokenizes titles
// into lowercase words, drops stop words and tokens shorter than three runes,
// and classifies domains by a fixed keyword lookup.
type LocalConceptExtractor struct {
	stopWords   map[string]bool
	domainRules []domainRule
}

// NewLocalConceptExtractor creates an extractor with the default stop word
// list and domain rules
func NewLocalConceptExtractor() *LocalConceptExtractor {
	return &LocalConceptExtractor{
		stopWords:   defaultStopWords(),
		domainRules: defaultDomainRules(),
	}
}

// ExtractConcepts turns text into a normalized concept set. Empty or
// stop-word-only text yields an empty set rather than an error.
func (e *LocalConceptExtractor) ExtractConcepts(text string) valueobjects.ConceptSet {
	var tokens []string

	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if len(word) < 3 || e.stopWords[word] {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return valueobjects.NewConceptSet(tokens...)
}

// ClassifyDomain assigns the first matching domain label for the concept
// set, or the uncategorized label when no rule matches
func (e *LocalConceptExtractor) ClassifyDomain(concepts valueobjects.ConceptSet) string {
	for _, rule := range e.domainRules {
		if concepts.Contains(rule.concept) {
			return rule.domain
		}
	}
	return entities.DomainUncategorized
}

// Annotate applies extraction and classification to a paper in place
func (e *LocalConceptExtractor) Annotate(paper *entities.Paper) {
	concepts := e.ExtractConcepts(paper.Title())
	paper.SetAnalysis(concepts, e.ClassifyDomain(concepts))
}

// defaultDomainRules returns the ordered concept-to-domain lookup. Earlier
// rules take priority when a concept set matches several.
func defaultDomainRules() []domainRule {
	return []domainRule{
		{"microgravity", "microgravity research"},
		{"spaceflight", "microgravity research"},
		{"weightlessness", "microgravity research"},
		{"radiation", "radiation biology"},
		{"irradiation", "radiation biology"},
		{"cosmic", "radiation biology"},
		{"bone", "musculoskeletal biology"},
		{"skeletal", "musculoskeletal biology"},
		{"muscle", "musculoskeletal biology"},
		{"osteoblast", "musculoskeletal biology"},
		{"osteoclast", "musculoskeletal biology"},
		{"stem", "cell biology"},
		{"cell", "cell biology"},
		{"cells", "cell biology"},
		{"cellular", "cell biology"},
		{"gene", "molecular biology"},
		{"genes", "molecular biology"},
		{"genomic", "molecular biology"},
		{"expression", "molecular biology"},
		{"dna", "molecular biology"},
		{"rna", "molecular biology"},
		{"protein", "molecular biology"},
		{"proteins", "molecular biology"},
		{"plant", "plant biology"},
		{"plants", "plant biology"},
		{"arabidopsis", "plant biology"},
		{"seedling", "plant biology"},
		{"seedlings", "plant biology"},
		{"root", "plant biology"},
		{"roots", "plant biology"},
	}
}

// defaultStopWords returns common English words plus paper-title filler that
// carries no concept signal
func defaultStopWords() map[string]bool {
	return map[string]bool{
		"the": true, "and": true, "for": true, "not": true, "with": true,
		"that": true, "have": true, "this": true, "but": true, "his": true,
		"from": true, "they": true, "say": true, "her": true, "she": true,
		"will": true, "one": true, "all": true, "would": true, "there": true,
		"their": true, "what": true, "out": true, "about": true, "who": true,
		"get": true, "which": true, "when": true, "make": true, "can": true,
		"like": true, "time": true, "just": true, "him": true, "know": true,
		"take": true, "into": true, "year": true, "your": true, "some": true,
		"could": true, "them": true, "see": true, "other": true, "than": true,
		"then": true, "now": true, "look": true, "only": true, "come": true,
		"its": true, "over": true, "think": true, "also": true, "back": true,
		"after": true, "use": true, "two": true, "how": true, "our": true,
		"first": true, "well": true, "way": true, "even": true, "new": true,
		"want": true, "because": true, "any": true, "these": true, "give": true,
		"day": true, "most": true, "was": true, "are": true, "been": true,
		"has": true, "had": true, "were": true, "said": true, "did": true,
		"having": true, "may": true, "should": true, "too": true, "very": true,
		"effect": true, "effects": true, "study": true, "studies": true,
		"during": true, "between": true, "under": true, "using": true,
		"based": true, "toward": true, "towards": true, "via": true,
		"among": true, "upon": true, "within": true, "role": true,
	}
}

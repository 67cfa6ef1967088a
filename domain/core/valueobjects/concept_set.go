package valueobjects

import (
	"sort"
	"strings"
)

// ConceptSet is a value object for a paper's normalized research concepts.
// Value objects are immutable and have no identity beyond their value.
type ConceptSet struct {
	members map[string]bool
}

// NewConceptSet creates a concept set from raw tokens. Tokens are lowercased
// and trimmed; blanks are dropped; duplicates collapse.
func NewConceptSet(tokens ...string) ConceptSet {
	members := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		members[t] = true
	}
	return ConceptSet{members: members}
}

// Size returns the number of concepts in the set
func (s ConceptSet) Size() int {
	return len(s.members)
}

// IsEmpty reports whether the set holds no concepts
func (s ConceptSet) IsEmpty() bool {
	return len(s.members) == 0
}

// Contains reports whether the set holds the given concept. The lookup
// normalizes its argument the same way the constructor does.
func (s ConceptSet) Contains(concept string) bool {
	return s.members[strings.ToLower(strings.TrimSpace(concept))]
}

// Members returns the concepts in sorted order
func (s ConceptSet) Members() []string {
	out := make([]string, 0, len(s.members))
	for c := range s.members {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the concepts present in both sets
func (s ConceptSet) Intersect(other ConceptSet) ConceptSet {
	small, large := s.members, other.members
	if len(large) < len(small) {
		small, large = large, small
	}
	members := make(map[string]bool)
	for c := range small {
		if large[c] {
			members[c] = true
		}
	}
	return ConceptSet{members: members}
}

// UnionSize returns the size of the union without materializing it
func (s ConceptSet) UnionSize(other ConceptSet) int {
	n := len(s.members)
	for c := range other.members {
		if !s.members[c] {
			n++
		}
	}
	return n
}

// Equals checks if two concept sets hold the same members
func (s ConceptSet) Equals(other ConceptSet) bool {
	if len(s.members) != len(other.members) {
		return false
	}
	for c := range s.members {
		if !other.members[c] {
			return false
		}
	}
	return true
}

package aggregates

import (
	"fmt"
	"sort"
	"time"

	"papergraph/domain/core/entities"
	"papergraph/domain/core/valueobjects"
	pkgerrors "papergraph/pkg/errors"
)

// Tier classifies the strength of a connection between two papers
type Tier string

const (
	TierStrong Tier = "strong"
	TierMedium Tier = "medium"
	TierWeak   Tier = "weak"
)

// rank orders tiers for neighbor enumeration, strongest first
func (t Tier) rank() int {
	switch t {
	case TierStrong:
		return 0
	case TierMedium:
		return 1
	default:
		return 2
	}
}

// Edge is a scored connection between an unordered pair of papers. The pair
// is normalized so SourceID < TargetID always holds.
type Edge struct {
	SourceID       int
	TargetID       int
	Score          float64
	Tier           Tier
	SharedConcepts valueobjects.ConceptSet
}

// NewEdge creates an edge between two distinct papers. The endpoint order is
// normalized, so (a,b) and (b,a) describe the same edge.
func NewEdge(a, b int, score float64, tier Tier, shared valueobjects.ConceptSet) (*Edge, error) {
	if a == b {
		return nil, pkgerrors.ErrSelfEdge(a)
	}
	if score < 0 || score > 1 {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("edge score must be in [0,1], got %v", score))
	}
	if a > b {
		a, b = b, a
	}
	return &Edge{
		SourceID:       a,
		TargetID:       b,
		Score:          score,
		Tier:           tier,
		SharedConcepts: shared,
	}, nil
}

// Other returns the endpoint opposite to the given paper id
func (e *Edge) Other(paperID int) int {
	if e.SourceID == paperID {
		return e.TargetID
	}
	return e.SourceID
}

// Neighbor pairs an adjacent paper with the edge that connects it
type Neighbor struct {
	PaperID int
	Edge    *Edge
}

// Graph is the aggregate root for one published analysis result. It is
// immutable once constructed: readers share it freely and a re-analysis
// builds a wholly new instance instead of patching this one.
type Graph struct {
	papers       map[int]*entities.Paper
	edges        []*Edge
	edgesByPair  map[[2]int]*Edge
	adjacency    map[int][]Neighbor
	degrees      map[int]int
	hubs         map[int]bool
	hubThreshold float64
	clusters     map[string][]int
	builtAt      time.Time
}

// NewGraph assembles the aggregate from papers and scored edges. Edges must
// reference known papers and each unordered pair may appear at most once.
// hubThreshold is the degree at or above which a paper counts as a hub;
// papers with zero degree never qualify.
func NewGraph(papers []*entities.Paper, edges []*Edge, hubThreshold float64) (*Graph, error) {
	g := &Graph{
		papers:       make(map[int]*entities.Paper, len(papers)),
		edges:        make([]*Edge, 0, len(edges)),
		edgesByPair:  make(map[[2]int]*Edge, len(edges)),
		adjacency:    make(map[int][]Neighbor),
		degrees:      make(map[int]int, len(papers)),
		hubs:         make(map[int]bool),
		hubThreshold: hubThreshold,
		clusters:     make(map[string][]int),
		builtAt:      time.Now(),
	}

	for _, paper := range papers {
		if paper == nil {
			return nil, pkgerrors.NewValidationError("graph cannot contain a nil paper")
		}
		if _, exists := g.papers[paper.ID()]; exists {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("duplicate paper id %d", paper.ID()))
		}
		g.papers[paper.ID()] = paper
		g.degrees[paper.ID()] = 0
	}

	for _, edge := range edges {
		if edge == nil {
			return nil, pkgerrors.NewValidationError("graph cannot contain a nil edge")
		}
		if _, ok := g.papers[edge.SourceID]; !ok {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("edge references unknown paper %d", edge.SourceID))
		}
		if _, ok := g.papers[edge.TargetID]; !ok {
			return nil, pkgerrors.NewValidationError(fmt.Sprintf("edge references unknown paper %d", edge.TargetID))
		}

		key := pairKey(edge.SourceID, edge.TargetID)
		if _, exists := g.edgesByPair[key]; exists {
			return nil, pkgerrors.ErrDuplicateEdge(edge.SourceID, edge.TargetID)
		}

		g.edgesByPair[key] = edge
		g.edges = append(g.edges, edge)
		g.adjacency[edge.SourceID] = append(g.adjacency[edge.SourceID], Neighbor{PaperID: edge.TargetID, Edge: edge})
		g.adjacency[edge.TargetID] = append(g.adjacency[edge.TargetID], Neighbor{PaperID: edge.SourceID, Edge: edge})
		g.degrees[edge.SourceID]++
		g.degrees[edge.TargetID]++
	}

	// Neighbor enumeration prefers strong over medium over weak edges,
	// then higher scores, then lower ids, so traversal order is stable.
	for id := range g.adjacency {
		neighbors := g.adjacency[id]
		sort.Slice(neighbors, func(i, j int) bool {
			a, b := neighbors[i], neighbors[j]
			if a.Edge.Tier.rank() != b.Edge.Tier.rank() {
				return a.Edge.Tier.rank() < b.Edge.Tier.rank()
			}
			if a.Edge.Score != b.Edge.Score {
				return a.Edge.Score > b.Edge.Score
			}
			return a.PaperID < b.PaperID
		})
	}

	for id, degree := range g.degrees {
		if degree > 0 && float64(degree) >= hubThreshold {
			g.hubs[id] = true
		}
	}

	for id, paper := range g.papers {
		g.clusters[paper.Domain()] = append(g.clusters[paper.Domain()], id)
	}
	for domain := range g.clusters {
		sort.Ints(g.clusters[domain])
	}

	return g, nil
}

// Paper looks up a paper by id in O(1)
func (g *Graph) Paper(id int) (*entities.Paper, bool) {
	paper, ok := g.papers[id]
	return paper, ok
}

// HasPaper checks if a paper exists in the graph
func (g *Graph) HasPaper(id int) bool {
	_, ok := g.papers[id]
	return ok
}

// Papers returns all papers ordered by id
func (g *Graph) Papers() []*entities.Paper {
	out := make([]*entities.Paper, 0, len(g.papers))
	for _, paper := range g.papers {
		out = append(out, paper)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Edges returns all edges ordered by (source, target)
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		return out[i].TargetID < out[j].TargetID
	})
	return out
}

// Neighbors enumerates the papers adjacent to id in O(degree). The returned
// slice is shared graph state and must not be modified.
func (g *Graph) Neighbors(id int) []Neighbor {
	return g.adjacency[id]
}

// EdgeBetween returns the edge connecting two papers, if any
func (g *Graph) EdgeBetween(a, b int) (*Edge, bool) {
	edge, ok := g.edgesByPair[pairKey(a, b)]
	return edge, ok
}

// Degree returns the number of edges incident to a paper
func (g *Graph) Degree(id int) int {
	return g.degrees[id]
}

// IsHub reports whether a paper's degree reaches the hub threshold
func (g *Graph) IsHub(id int) bool {
	return g.hubs[id]
}

// HubThreshold returns the degree cutoff used for hub flagging
func (g *Graph) HubThreshold() float64 {
	return g.hubThreshold
}

// PaperCount returns the number of papers in the graph
func (g *Graph) PaperCount() int {
	return len(g.papers)
}

// EdgeCount returns the number of edges in the graph
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// HubCount returns the number of hub papers
func (g *Graph) HubCount() int {
	return len(g.hubs)
}

// Clusters returns domain label to member paper ids, members sorted by id
func (g *Graph) Clusters() map[string][]int {
	out := make(map[string][]int, len(g.clusters))
	for domain, ids := range g.clusters {
		members := make([]int, len(ids))
		copy(members, ids)
		out[domain] = members
	}
	return out
}

// ClusterCount returns the number of distinct domain clusters
func (g *Graph) ClusterCount() int {
	return len(g.clusters)
}

// Density returns edges relative to the maximum possible edge count
func (g *Graph) Density() float64 {
	n := len(g.papers)
	if n < 2 {
		return 0
	}
	return float64(2*len(g.edges)) / float64(n*(n-1))
}

// BuiltAt returns when this graph was constructed
func (g *Graph) BuiltAt() time.Time {
	return g.builtAt
}

// HopDistances walks outward from the seed papers up to maxHops edges and
// returns the hop distance of every reached paper, seeds themselves at hop 0.
// With several seeds a paper's distance is to its nearest seed. Unknown seed
// ids are ignored.
func (g *Graph) HopDistances(seeds []int, maxHops int) map[int]int {
	distances := make(map[int]int)
	var queue []int

	for _, seed := range seeds {
		if _, ok := g.papers[seed]; !ok {
			continue
		}
		if _, seen := distances[seed]; seen {
			continue
		}
		distances[seed] = 0
		queue = append(queue, seed)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if distances[current] >= maxHops {
			continue
		}

		for _, neighbor := range g.adjacency[current] {
			if _, seen := distances[neighbor.PaperID]; seen {
				continue
			}
			distances[neighbor.PaperID] = distances[current] + 1
			queue = append(queue, neighbor.PaperID)
		}
	}

	return distances
}

// ShortestPaths finds every shortest path from source to target within
// maxHops, capped at maxPaths, in BFS discovery order. source == target
// yields the single trivial path; unknown endpoints or no path within the
// bound yield nil. Neighbor enumeration order makes the result deterministic
// for identical graphs.
func (g *Graph) ShortestPaths(source, target, maxHops, maxPaths int) [][]int {
	if _, ok := g.papers[source]; !ok {
		return nil
	}
	if _, ok := g.papers[target]; !ok {
		return nil
	}
	if maxPaths < 1 {
		return nil
	}
	if source == target {
		return [][]int{{source}}
	}
	if maxHops < 1 {
		return nil
	}

	type item struct {
		node int
		path []int
	}

	// earliest records the first BFS depth each node was reached at; a
	// node may be re-entered at the same depth by a different shortest
	// route, but never at a greater one.
	earliest := map[int]int{source: 0}
	queue := []item{{node: source, path: []int{source}}}
	var paths [][]int
	foundDepth := -1

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		depth := len(current.path) - 1

		// All remaining queue items are at least this deep, so once a
		// path to the target exists nothing shorter can follow.
		if foundDepth >= 0 && depth >= foundDepth {
			break
		}
		if depth >= maxHops {
			continue
		}

		for _, neighbor := range g.adjacency[current.node] {
			next := neighbor.PaperID

			if next == target {
				path := make([]int, len(current.path)+1)
				copy(path, current.path)
				path[len(current.path)] = next
				paths = append(paths, path)
				foundDepth = depth + 1
				if len(paths) >= maxPaths {
					return paths
				}
				continue
			}

			if seenAt, seen := earliest[next]; seen && seenAt <= depth {
				continue
			}
			earliest[next] = depth + 1

			path := make([]int, len(current.path)+1)
			copy(path, current.path)
			path[len(current.path)] = next
			queue = append(queue, item{node: next, path: path})
		}
	}

	return paths
}

// Validate ensures graph invariants hold
func (g *Graph) Validate() error {
	for _, edge := range g.edges {
		if edge.SourceID == edge.TargetID {
			return pkgerrors.ErrSelfEdge(edge.SourceID)
		}
		if _, ok := g.papers[edge.SourceID]; !ok {
			return pkgerrors.NewInternalError("edge references non-existent source paper")
		}
		if _, ok := g.papers[edge.TargetID]; !ok {
			return pkgerrors.NewInternalError("edge references non-existent target paper")
		}
	}

	if len(g.edges) != len(g.edgesByPair) {
		return pkgerrors.NewInternalError("edge count mismatch")
	}

	return nil
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

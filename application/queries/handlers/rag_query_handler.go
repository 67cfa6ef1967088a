package handlers

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/queries"
	"papergraph/domain/config"
	"papergraph/domain/core/aggregates"
	"papergraph/domain/core/entities"
	"papergraph/domain/core/valueobjects"
	"papergraph/domain/services"
	"papergraph/pkg/observability"
)

// insightTimeout bounds the best-effort provider call so a slow provider
// cannot stall the ranked response indefinitely
const insightTimeout = 15 * time.Second

// RagQueryHandler answers semantic queries with direct concept matching and
// optional hop-bounded graph expansion
type RagQueryHandler struct {
	store     ports.SnapshotStore
	extractor services.ConceptExtractor
	scorer    *services.ConnectionScorer
	provider  ports.Provider
	cfg       *config.ScoringConfig
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewRagQueryHandler creates a new semantic query handler
func NewRagQueryHandler(
	store ports.SnapshotStore,
	extractor services.ConceptExtractor,
	scorer *services.ConnectionScorer,
	provider ports.Provider,
	cfg *config.ScoringConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *RagQueryHandler {
	return &RagQueryHandler{
		store:     store,
		extractor: extractor,
		scorer:    scorer,
		provider:  provider,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// ragCandidate is one paper under consideration during ranking
type ragCandidate struct {
	paper     *entities.Paper
	score     float64
	hop       int
	reasoning []string
}

// expansionNode carries the origin and trace of one BFS frontier entry
type expansionNode struct {
	id          int
	originScore float64
	originTitle string
	steps       []string
}

// Handle executes the semantic query
func (h *RagQueryHandler) Handle(ctx context.Context, query queries.RagQuery) (*queries.RagQueryResult, error) {
	snapshot, err := currentSnapshot(h.store)
	if err != nil {
		return nil, err
	}
	graph := snapshot.Graph

	maxResults := query.MaxResults
	if maxResults == 0 {
		maxResults = h.cfg.DefaultMaxResults
	}

	queryConcepts := h.extractor.ExtractConcepts(query.Text)

	candidates := h.directMatches(graph, queryConcepts)
	if query.UseGraphStructure {
		h.expand(graph, candidates)
	}

	ranked := make([]*ragCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, candidate)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.hop != b.hop {
			return a.hop < b.hop
		}
		return a.paper.ID() < b.paper.ID()
	})
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	result := &queries.RagQueryResult{
		Query:   query.Text,
		Results: make([]queries.RankedPaper, 0, len(ranked)),
	}
	for _, candidate := range ranked {
		result.Results = append(result.Results, queries.RankedPaper{
			ID:             candidate.paper.ID(),
			Title:          candidate.paper.Title(),
			Link:           candidate.paper.Link(),
			Domain:         candidate.paper.Domain(),
			Concepts:       candidate.paper.Concepts().Members(),
			RelevanceScore: candidate.score,
			RelevanceBand:  bandFor(candidate.score, h.cfg.Bands),
			HopDistance:    candidate.hop,
			Reasoning:      candidate.reasoning,
		})
	}

	if len(result.Results) > 0 {
		result.Insight = h.buildInsight(ctx, query.Text, result.Results)
	}

	h.logger.Debug("Semantic query answered",
		zap.String("query", query.Text),
		zap.Int("queryConcepts", queryConcepts.Size()),
		zap.Int("results", len(result.Results)),
		zap.Bool("expanded", query.UseGraphStructure),
	)

	return result, nil
}

// directMatches scores every paper against the query concepts. Papers with
// any overlap become hop-0 candidates.
func (h *RagQueryHandler) directMatches(graph *aggregates.Graph, queryConcepts valueobjects.ConceptSet) map[int]*ragCandidate {
	candidates := make(map[int]*ragCandidate)

	for _, paper := range graph.Papers() {
		overlap := paper.Concepts().Intersect(queryConcepts)
		if overlap.IsEmpty() {
			continue
		}

		score := h.scorer.Jaccard(paper.Concepts(), queryConcepts)
		candidates[paper.ID()] = &ragCandidate{
			paper: paper,
			score: score,
			hop:   0,
			reasoning: []string{
				fmt.Sprintf("Matched query concepts: %s", strings.Join(overlap.Members(), ", ")),
			},
		}
	}

	return candidates
}

// expand walks outward from every hop-0 candidate up to the hop budget,
// adding newly reached papers with decayed scores. Enumeration visits
// higher-scoring origins first and their strongest edges first, so when
// several routes compete for a paper the preferred one claims it. A paper
// already matched directly keeps its hop-0 entry.
func (h *RagQueryHandler) expand(graph *aggregates.Graph, candidates map[int]*ragCandidate) {
	if len(candidates) == 0 {
		return
	}

	seeds := make([]*ragCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		seeds = append(seeds, candidate)
	}
	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].score != seeds[j].score {
			return seeds[i].score > seeds[j].score
		}
		return seeds[i].paper.ID() < seeds[j].paper.ID()
	})

	reached := make(map[int]bool, len(seeds))
	level := make([]*expansionNode, 0, len(seeds))
	for _, seed := range seeds {
		reached[seed.paper.ID()] = true
		level = append(level, &expansionNode{
			id:          seed.paper.ID(),
			originScore: seed.score,
			originTitle: seed.paper.Title(),
		})
	}

	for hop := 1; hop <= h.cfg.HopBudget; hop++ {
		var next []*expansionNode

		for _, node := range level {
			from, ok := graph.Paper(node.id)
			if !ok {
				continue
			}

			for _, neighbor := range graph.Neighbors(node.id) {
				if reached[neighbor.PaperID] {
					continue
				}
				reached[neighbor.PaperID] = true

				paper, ok := graph.Paper(neighbor.PaperID)
				if !ok {
					continue
				}

				step := fmt.Sprintf("Hop %d: linked to %q (shared: %s)",
					hop, from.Title(), strings.Join(neighbor.Edge.SharedConcepts.Members(), ", "))
				steps := make([]string, 0, len(node.steps)+1)
				steps = append(steps, node.steps...)
				steps = append(steps, step)

				reasoning := make([]string, 0, len(steps)+1)
				reasoning = append(reasoning, fmt.Sprintf("Expanded from direct match %q", node.originTitle))
				reasoning = append(reasoning, steps...)

				candidates[neighbor.PaperID] = &ragCandidate{
					paper:     paper,
					score:     node.originScore * math.Pow(h.cfg.HopDecay, float64(hop)),
					hop:       hop,
					reasoning: reasoning,
				}

				next = append(next, &expansionNode{
					id:          neighbor.PaperID,
					originScore: node.originScore,
					originTitle: node.originTitle,
					steps:       steps,
				})
			}
		}

		level = next
	}
}

// buildInsight assembles the insight block: themes and domain shares come
// from the ranked set itself, the summary text from the provider when one is
// available. Provider failure leaves the text empty and never fails the query.
func (h *RagQueryHandler) buildInsight(ctx context.Context, queryText string, ranked []queries.RankedPaper) *queries.Insight {
	insight := &queries.Insight{
		Themes:  topThemes(ranked, 5),
		Domains: domainShares(ranked),
	}

	if !h.provider.IsAvailable() {
		return insight
	}

	callCtx, cancel := context.WithTimeout(ctx, insightTimeout)
	defer cancel()

	content, err := h.provider.Complete(callCtx, insightPrompt(queryText, ranked), ports.CompletionOptions{
		MaxTokens:   512,
		Temperature: 0.3,
	})
	if err != nil {
		h.metrics.ProviderCalls.WithLabelValues("error").Inc()
		h.logger.Warn("Insight generation failed, returning results without summary",
			zap.String("provider", h.provider.Name()),
			zap.Error(err),
		)
		return insight
	}

	h.metrics.ProviderCalls.WithLabelValues("success").Inc()
	insight.Content = strings.TrimSpace(content)
	return insight
}

func insightPrompt(queryText string, ranked []queries.RankedPaper) string {
	var b strings.Builder
	b.WriteString("You are a research librarian. Summarize in at most three sentences what the following papers ")
	b.WriteString("collectively say about the topic ")
	fmt.Fprintf(&b, "%q.\n\nPapers:\n", queryText)
	for i, paper := range ranked {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "- %s (domain: %s; concepts: %s)\n", paper.Title, paper.Domain, strings.Join(paper.Concepts, ", "))
	}
	b.WriteString("\nRespond with plain text only.")
	return b.String()
}

// topThemes counts concept frequency across the ranked papers and keeps the
// most common ones
func topThemes(ranked []queries.RankedPaper, limit int) []string {
	counts := make(map[string]int)
	for _, paper := range ranked {
		for _, concept := range paper.Concepts {
			counts[concept]++
		}
	}

	themes := make([]string, 0, len(counts))
	for concept := range counts {
		themes = append(themes, concept)
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})

	if len(themes) > limit {
		themes = themes[:limit]
	}
	return themes
}

// domainShares counts how many ranked papers fall in each domain
func domainShares(ranked []queries.RankedPaper) []queries.DomainShare {
	counts := make(map[string]int)
	for _, paper := range ranked {
		counts[paper.Domain]++
	}

	shares := make([]queries.DomainShare, 0, len(counts))
	for domain, count := range counts {
		shares = append(shares, queries.DomainShare{Domain: domain, Count: count})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Domain < shares[j].Domain
	})
	return shares
}

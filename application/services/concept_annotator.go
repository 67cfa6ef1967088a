package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/domain/core/entities"
	"papergraph/domain/core/valueobjects"
	domainservices "papergraph/domain/services"
	"papergraph/pkg/observability"
)

// Analyzer type labels reported in analysis stats. A run reports "llm" only
// when the provider served at least one paper; a fully-fallen-back run
// reports "local".
const (
	AnalyzerTypeLLM   = "llm"
	AnalyzerTypeLocal = "local"
)

// extractionPromptTemplate asks the provider for a machine-readable
// annotation of a single paper title.
const extractionPromptTemplate = `You are indexing research paper titles for a knowledge graph.
Respond with only a JSON object of the form {"concepts": ["..."], "domain": "..."}.
Concepts are three to eight lowercase single-word topics taken from the title.
Domain is a short research field label such as "microgravity research" or "plant biology".

Title: %q`

// providerAnnotation is the JSON shape the provider is asked to return
type providerAnnotation struct {
	Concepts []string `json:"concepts"`
	Domain   string   `json:"domain"`
}

// ConceptAnnotator populates concepts and a domain label on every paper in a
// batch. When a provider is available it is asked per paper; any per-paper
// failure falls back to the deterministic local extractor without aborting
// the batch.
type ConceptAnnotator struct {
	provider ports.Provider
	local    domainservices.ConceptExtractor
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewConceptAnnotator creates a new concept annotator
func NewConceptAnnotator(
	provider ports.Provider,
	local domainservices.ConceptExtractor,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ConceptAnnotator {
	return &ConceptAnnotator{
		provider: provider,
		local:    local,
		metrics:  metrics,
		logger:   logger,
	}
}

// Annotate fills concepts and domain on each paper in place and reports
// which analyzer type served the batch. Provider failures are local to the
// affected paper; only context cancellation aborts the batch.
func (a *ConceptAnnotator) Annotate(ctx context.Context, papers []*entities.Paper) (string, error) {
	available := a.provider != nil && a.provider.IsAvailable()
	usedProvider := false

	for _, paper := range papers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if available {
			err := a.annotateWithProvider(ctx, paper)
			if err == nil {
				a.metrics.ProviderCalls.WithLabelValues("success").Inc()
				usedProvider = true
				continue
			}
			a.metrics.ProviderCalls.WithLabelValues("error").Inc()
			a.metrics.ProviderFallbacks.Inc()
			a.logger.Warn("Provider extraction failed, using local analyzer for this paper",
				zap.Int("paperId", paper.ID()),
				zap.Error(err),
			)
		}

		concepts := a.local.ExtractConcepts(paper.Title())
		paper.SetAnalysis(concepts, a.local.ClassifyDomain(concepts))
	}

	if usedProvider {
		return AnalyzerTypeLLM, nil
	}
	return AnalyzerTypeLocal, nil
}

// annotateWithProvider asks the provider for one paper's annotation and
// applies it. Any error leaves the paper untouched so the caller can fall
// back locally.
func (a *ConceptAnnotator) annotateWithProvider(ctx context.Context, paper *entities.Paper) error {
	raw, err := a.provider.Complete(ctx, fmt.Sprintf(extractionPromptTemplate, paper.Title()), ports.CompletionOptions{
		MaxTokens:   256,
		Temperature: 0.1,
	})
	if err != nil {
		return err
	}

	var annotation providerAnnotation
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &annotation); err != nil {
		return fmt.Errorf("unparseable provider response: %w", err)
	}

	tokens := make([]string, 0, len(annotation.Concepts))
	for _, concept := range annotation.Concepts {
		concept = strings.ToLower(strings.TrimSpace(concept))
		if concept != "" {
			tokens = append(tokens, concept)
		}
	}
	if len(tokens) == 0 {
		return fmt.Errorf("provider returned no concepts")
	}

	concepts := valueobjects.NewConceptSet(tokens...)
	domain := strings.ToLower(strings.TrimSpace(annotation.Domain))
	if domain == "" {
		domain = a.local.ClassifyDomain(concepts)
	}

	paper.SetAnalysis(concepts, domain)
	return nil
}

// stripJSONFences removes a markdown code fence around a JSON payload.
// Providers often wrap structured answers even when asked not to.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/domain/core/entities"
	domainservices "papergraph/domain/services"
	"papergraph/pkg/errors"
	"papergraph/pkg/observability"
)

// AnalysisService runs the full pipeline over the loaded corpus: concept
// annotation, pairwise connection scoring, and graph construction. A
// successful run publishes a new snapshot in one atomic swap; a failed run
// publishes nothing, so readers keep whatever graph was current before.
//
// Only one analysis may be in flight. A second request while one is running
// is rejected with a conflict error rather than queued.
type AnalysisService struct {
	records   []ports.PaperRecord
	annotator *ConceptAnnotator
	scorer    *domainservices.ConnectionScorer
	builder   *domainservices.GraphBuilder
	store     ports.SnapshotStore
	metrics   *observability.Collector
	logger    *zap.Logger

	running atomic.Bool
}

// NewAnalysisService creates a new analysis service over an already loaded
// corpus. Paper ids are assigned 1-based in record order on every run, so an
// unchanged corpus always produces the same ids.
func NewAnalysisService(
	records []ports.PaperRecord,
	annotator *ConceptAnnotator,
	scorer *domainservices.ConnectionScorer,
	builder *domainservices.GraphBuilder,
	store ports.SnapshotStore,
	metrics *observability.Collector,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		records:   records,
		annotator: annotator,
		scorer:    scorer,
		builder:   builder,
		store:     store,
		metrics:   metrics,
		logger:    logger,
	}
}

// Analyze runs one analysis and publishes the resulting snapshot
func (s *AnalysisService) Analyze(ctx context.Context) (*ports.Snapshot, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, errors.ErrAnalysisInProgress()
	}
	defer s.running.Store(false)

	runID := uuid.New().String()
	started := time.Now()
	s.logger.Info("Analysis started", zap.String("runId", runID), zap.Int("papers", len(s.records)))

	snapshot, err := s.run(ctx, runID, started)
	took := time.Since(started)
	if err != nil {
		s.metrics.ObserveAnalysis("failure", took)
		s.logger.Error("Analysis failed", zap.String("runId", runID), zap.Error(err), zap.Duration("took", took))
		return nil, err
	}

	s.store.Publish(snapshot)
	s.metrics.ObserveAnalysis("success", took)
	s.metrics.SetGraphSize(snapshot.Graph.PaperCount(), snapshot.Graph.EdgeCount())

	s.logger.Info("Analysis finished",
		zap.String("runId", runID),
		zap.Int("papers", snapshot.Graph.PaperCount()),
		zap.Int("connections", snapshot.Graph.EdgeCount()),
		zap.Int("hubs", snapshot.Graph.HubCount()),
		zap.String("analyzerType", snapshot.AnalyzerType),
		zap.Duration("took", took),
	)

	return snapshot, nil
}

// run builds the new snapshot off to the side. Nothing here touches the
// published snapshot, so a failure at any stage leaves readers unaffected.
func (s *AnalysisService) run(ctx context.Context, runID string, started time.Time) (*ports.Snapshot, error) {
	papers := make([]*entities.Paper, 0, len(s.records))
	for i, record := range s.records {
		paper, err := entities.NewPaper(i+1, record.Title, record.Link)
		if err != nil {
			return nil, err
		}
		papers = append(papers, paper)
	}

	analyzerType, err := s.annotator.Annotate(ctx, papers)
	if err != nil {
		return nil, err
	}

	edges, err := s.scorer.Score(papers)
	if err != nil {
		return nil, err
	}

	graph, err := s.builder.Build(papers, edges)
	if err != nil {
		return nil, err
	}

	return &ports.Snapshot{
		RunID:        runID,
		Graph:        graph,
		AnalyzerType: analyzerType,
		AnalyzedAt:   started,
		Duration:     time.Since(started),
	}, nil
}

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/application/queries"
	domaincfg "papergraph/domain/config"
	"papergraph/infrastructure/config"
	"papergraph/infrastructure/di"
	pkgerrors "papergraph/pkg/errors"
)

// offlineProvider satisfies ports.Provider without ever reaching an external
// service. Queries fall back to computed insights only.
type offlineProvider struct{}

func (offlineProvider) Complete(context.Context, string, ports.CompletionOptions) (string, error) {
	return "", fmt.Errorf("provider offline")
}

func (offlineProvider) IsAvailable() bool { return false }

func (offlineProvider) Name() string { return "offline" }

// blockingProvider parks the first completion call until released, keeping an
// analysis run in flight for as long as a test needs
type blockingProvider struct {
	enterOnce sync.Once
	entered   chan struct{}
	release   chan struct{}
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *blockingProvider) Complete(_ context.Context, _ string, _ ports.CompletionOptions) (string, error) {
	p.enterOnce.Do(func() { close(p.entered) })
	<-p.release
	return `{"concepts": ["bone"], "domain": "musculoskeletal biology"}`, nil
}

func (p *blockingProvider) IsAvailable() bool { return true }

func (p *blockingProvider) Name() string { return "blocking" }

func sampleRecords() []ports.PaperRecord {
	return []ports.PaperRecord{
		{Title: "Microgravity Effects on Bone Density Loss", Link: "https://example.org/1"},
		{Title: "Bone Density Loss in Long Duration Spaceflight", Link: "https://example.org/2"},
		{Title: "Plant Growth Responses in Orbit", Link: "https://example.org/3"},
	}
}

// newTestRouter wires the real buses, services, and in-memory store behind a
// router, mirroring the dependency injection container. The annotator provider
// is injectable so tests can hold an analysis open.
func newTestRouter(t *testing.T, records []ports.PaperRecord, annotatorProvider ports.Provider) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	cfg := &config.Config{
		Environment:    "development",
		AllowedOrigins: []string{"http://localhost:3000"},
		Scoring:        domaincfg.DefaultScoringConfig(),
	}

	metrics := di.ProvideMetrics()
	errorHandler := pkgerrors.NewErrorHandler(logger, false)
	store := di.ProvideSnapshotStore()
	extractor := di.ProvideConceptExtractor()
	scorer := di.ProvideConnectionScorer(cfg)
	builder := di.ProvideGraphBuilder(cfg)
	annotator := di.ProvideAnnotator(annotatorProvider, extractor, metrics, logger)
	analysis := di.ProvideAnalysisService(records, annotator, scorer, builder, store, metrics, logger)
	commandBus := di.ProvideCommandBus(analysis)
	queryBus := di.ProvideQueryBus(cfg, store, records, offlineProvider{}, extractor, scorer, metrics, logger)

	return NewRouter(commandBus, queryBus, metrics, errorHandler, logger, cfg.AllowedOrigins, len(records)).Setup()
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestRouter_Health(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	rec := doRequest(t, handler, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestRouter_Readiness(t *testing.T) {
	t.Run("with corpus", func(t *testing.T) {
		handler := newTestRouter(t, sampleRecords(), nil)

		rec := doRequest(t, handler, http.MethodGet, "/ready", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready","papers":3}`, rec.Body.String())
	})

	t.Run("without corpus", func(t *testing.T) {
		handler := newTestRouter(t, nil, nil)

		rec := doRequest(t, handler, http.MethodGet, "/ready", nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"not_ready"}`, rec.Body.String())
	})
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	// A first request gives the HTTP metrics something to count
	doRequest(t, handler, http.MethodGet, "/health", nil)
	rec := doRequest(t, handler, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "papergraph_http_requests_total")
}

func TestRouter_GraphAndStatsNullBeforeAnalysis(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	for _, target := range []string{"/api/graph", "/api/stats"} {
		rec := doRequest(t, handler, http.MethodGet, target, nil)

		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()), target)
	}
}

func TestRouter_PapersListedBeforeAnalysis(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	rec := doRequest(t, handler, http.MethodGet, "/api/papers", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var result queries.ListPapersResult
	decodeJSON(t, rec, &result)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, 1, result.Papers[0].ID)
	assert.Empty(t, result.Papers[0].Concepts)
}

func TestRouter_RagQueryBeforeAnalysis(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/rag/query",
		strings.NewReader(`{"query": "bone density"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var response pkgerrors.ErrorResponse
	decodeJSON(t, rec, &response)
	assert.True(t, response.Error)
	assert.Equal(t, "PRECONDITION", response.Type)
	assert.Equal(t, "GRAPH_NOT_READY", response.Code)
}

func TestRouter_FullAnalysisAndQueryFlow(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var analyzed struct {
		Success          bool                        `json:"success"`
		PapersCount      int                         `json:"papersCount"`
		ConnectionsCount int                         `json:"connectionsCount"`
		AnalyzerType     string                      `json:"analyzerType"`
		GraphData        *queries.GetGraphDataResult `json:"graphData"`
	}
	decodeJSON(t, rec, &analyzed)
	assert.True(t, analyzed.Success)
	assert.Equal(t, 3, analyzed.PapersCount)
	assert.Equal(t, 1, analyzed.ConnectionsCount)
	assert.Equal(t, "local", analyzed.AnalyzerType)
	require.NotNil(t, analyzed.GraphData)
	assert.Len(t, analyzed.GraphData.Nodes, 3)

	t.Run("graph", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/graph", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var graph queries.GetGraphDataResult
		decodeJSON(t, rec, &graph)
		assert.Len(t, graph.Nodes, 3)
		require.Len(t, graph.Edges, 1)
		assert.ElementsMatch(t, []string{"bone", "density", "loss"}, graph.Edges[0].SharedConcepts)
	})

	t.Run("stats", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/stats", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var stats queries.GetStatsResult
		decodeJSON(t, rec, &stats)
		assert.NotEmpty(t, stats.RunID)
		assert.Equal(t, 3, stats.PapersCount)
		assert.Equal(t, 1, stats.ConnectionsCount)
		assert.Equal(t, "local", stats.AnalyzerType)
	})

	t.Run("papers carry concepts", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/papers", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var result queries.ListPapersResult
		decodeJSON(t, rec, &result)
		require.Equal(t, 3, result.Count)
		assert.Contains(t, result.Papers[0].Concepts, "microgravity")
	})

	t.Run("search", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/search?query=plant", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var result queries.SearchPapersResult
		decodeJSON(t, rec, &result)
		require.Len(t, result.Papers, 1)
		assert.Equal(t, 3, result.Papers[0].ID)
	})

	t.Run("recommendations", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/recommendations/1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var result queries.GetRecommendationsResult
		decodeJSON(t, rec, &result)
		require.Len(t, result.Recommendations, 1)
		assert.Equal(t, 2, result.Recommendations[0].ID)
	})

	t.Run("rag query", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/rag/query",
			strings.NewReader(`{"query": "bone density loss"}`))

		require.Equal(t, http.StatusOK, rec.Code)
		var result queries.RagQueryResult
		decodeJSON(t, rec, &result)
		require.Len(t, result.Results, 2)
		assert.Equal(t, 1, result.Results[0].ID)
		assert.InDelta(t, 0.75, result.Results[0].RelevanceScore, 1e-9)
		require.NotNil(t, result.Insight)
		assert.Empty(t, result.Insight.Content)
		assert.NotEmpty(t, result.Insight.Themes)
	})

	t.Run("explore concept", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/rag/concept/bone", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var result queries.ExploreConceptResult
		decodeJSON(t, rec, &result)
		assert.Equal(t, "bone", result.Concept)
		assert.Len(t, result.Papers, 2)
	})

	t.Run("find paths", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodGet, "/api/rag/paths/1/2", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var result queries.FindPathsResult
		decodeJSON(t, rec, &result)
		require.Len(t, result.Paths, 1)
		assert.Equal(t, 1, result.Paths[0].Length)
	})
}

func TestRouter_AnalyzeConflictWhileRunning(t *testing.T) {
	provider := newBlockingProvider()
	handler := newTestRouter(t, sampleRecords(), provider)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- doRequest(t, handler, http.MethodPost, "/api/analyze", nil)
	}()
	<-provider.entered

	rec := doRequest(t, handler, http.MethodPost, "/api/analyze", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	var response pkgerrors.ErrorResponse
	decodeJSON(t, rec, &response)
	assert.Equal(t, "CONFLICT", response.Type)
	assert.Equal(t, "ANALYSIS_IN_PROGRESS", response.Code)
	assert.True(t, response.Retryable)

	close(provider.release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
}

func TestRouter_RagQueryValidation(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed json", body: `{"query": `, message: "invalid JSON body"},
		{name: "missing query", body: `{}`, message: "query is required"},
		{name: "oversized maxResults", body: `{"query": "bone", "options": {"maxResults": 500}}`, message: "maxresults must be 100 or less"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, handler, http.MethodPost, "/api/rag/query", strings.NewReader(tt.body))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var response pkgerrors.ErrorResponse
			decodeJSON(t, rec, &response)
			assert.Equal(t, "VALIDATION", response.Type)
			assert.Contains(t, response.Message, tt.message)
		})
	}
}

func TestRouter_RejectsNonIntegerParams(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	targets := []string{
		"/api/recommendations/abc",
		"/api/rag/paths/x/2",
		"/api/rag/paths/1/y",
		"/api/rag/concept/bone?depth=deep",
	}

	for _, target := range targets {
		rec := doRequest(t, handler, http.MethodGet, target, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		var response pkgerrors.ErrorResponse
		decodeJSON(t, rec, &response)
		assert.Equal(t, "VALIDATION", response.Type, target)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	handler := newTestRouter(t, sampleRecords(), nil)

	t.Run("allowed origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/graph", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "GET")
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/graph", nil)
		req.Header.Set("Origin", "https://evil.example")
		req.Header.Set("Access-Control-Request-Method", "GET")
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

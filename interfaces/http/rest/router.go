package rest

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commandbus "papergraph/application/commands/bus"
	querybus "papergraph/application/queries/bus"
	"papergraph/interfaces/http/rest/handlers"
	"papergraph/interfaces/http/rest/middleware"
	pkgerrors "papergraph/pkg/errors"
	"papergraph/pkg/observability"
)

// analyzeRequestsPerMinute bounds how often one client can trigger the full
// pipeline. Runs are already serialized; this just stops request floods.
const analyzeRequestsPerMinute = 10

// ragRequestsPerMinute bounds the query endpoints that may reach the
// external provider
const ragRequestsPerMinute = 60

// Router creates and configures the HTTP router
type Router struct {
	commandBus     *commandbus.CommandBus
	queryBus       *querybus.QueryBus
	metrics        *observability.Collector
	errors         *pkgerrors.ErrorHandler
	logger         *zap.Logger
	allowedOrigins []string
	corpusSize     int
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *commandbus.CommandBus,
	queryBus *querybus.QueryBus,
	metrics *observability.Collector,
	errors *pkgerrors.ErrorHandler,
	logger *zap.Logger,
	allowedOrigins []string,
	corpusSize int,
) *Router {
	return &Router{
		commandBus:     commandBus,
		queryBus:       queryBus,
		metrics:        metrics,
		errors:         errors,
		logger:         logger,
		allowedOrigins: allowedOrigins,
		corpusSize:     corpusSize,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Operational endpoints
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		rt.metrics.Registry(),
		promhttp.HandlerOpts{},
	))

	analyzeLimiter := middleware.NewRateLimiter(analyzeRequestsPerMinute, rt.errors)
	ragLimiter := middleware.NewRateLimiter(ragRequestsPerMinute, rt.errors)

	router.Route("/api", func(r chi.Router) {
		analysisHandler := handlers.NewAnalysisHandler(rt.commandBus, rt.queryBus, rt.errors, rt.logger)
		r.With(analyzeLimiter.Limit).Post("/analyze", analysisHandler.Analyze)

		graphHandler := handlers.NewGraphHandler(rt.queryBus, rt.errors, rt.logger)
		r.Get("/graph", graphHandler.GetGraph)
		r.Get("/stats", graphHandler.GetStats)

		paperHandler := handlers.NewPaperHandler(rt.queryBus, rt.errors, rt.logger)
		r.Get("/papers", paperHandler.ListPapers)
		r.Get("/search", paperHandler.Search)
		r.Get("/recommendations/{paperID}", paperHandler.Recommendations)

		ragHandler := handlers.NewRagHandler(rt.queryBus, rt.errors, rt.logger)
		r.Route("/rag", func(r chi.Router) {
			r.Use(ragLimiter.Limit)
			r.Post("/query", ragHandler.Query)
			r.Get("/concept/{concept}", ragHandler.ExploreConcept)
			r.Get("/paths/{sourceID}/{targetID}", ragHandler.FindPaths)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports whether the corpus is loaded. The process refuses to
// start without one, so an empty corpus here means construction was skipped.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if rt.corpusSize == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not_ready"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ready","papers":%d}`, rt.corpusSize)
}

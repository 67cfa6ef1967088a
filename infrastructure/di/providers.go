package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"papergraph/application/commands"
	commandbus "papergraph/application/commands/bus"
	"papergraph/application/ports"
	"papergraph/application/queries"
	querybus "papergraph/application/queries/bus"
	queryhandlers "papergraph/application/queries/handlers"
	"papergraph/application/services"
	domainservices "papergraph/domain/services"
	"papergraph/infrastructure/config"
	"papergraph/infrastructure/corpus"
	"papergraph/infrastructure/llm"
	"papergraph/infrastructure/persistence/memory"
	pkgerrors "papergraph/pkg/errors"
	"papergraph/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *observability.Collector
	Errors        *pkgerrors.ErrorHandler
	Records       []ports.PaperRecord
	Provider      ports.Provider
	SnapshotStore ports.SnapshotStore
	Analysis      *services.AnalysisService
	CommandBus    *commandbus.CommandBus
	QueryBus      *querybus.QueryBus
}

// ProvideLogger creates the process logger. Encoding follows the environment;
// LOG_LEVEL overrides the level within it.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideMetrics creates the prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector("papergraph")
}

// ProvideErrorHandler creates the HTTP error handler. Error detail such as
// stack traces is only exposed outside production.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, !cfg.IsProduction())
}

// ProvideCorpus loads the paper corpus once at startup. A missing or empty
// corpus is fatal: the service would have nothing to analyze or serve.
func ProvideCorpus(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]ports.PaperRecord, error) {
	return corpus.NewCSVSource(cfg.CorpusPath, logger).Load(ctx)
}

// ProvideProvider creates the LLM completion provider
func ProvideProvider(cfg *config.Config, logger *zap.Logger) ports.Provider {
	return llm.NewGeminiProvider(llm.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}, logger)
}

// ProvideSnapshotStore creates the holder for the published graph
func ProvideSnapshotStore() ports.SnapshotStore {
	return memory.NewSnapshotStore()
}

// ProvideConceptExtractor creates the deterministic local extractor
func ProvideConceptExtractor() domainservices.ConceptExtractor {
	return domainservices.NewLocalConceptExtractor()
}

// ProvideConnectionScorer creates the pairwise edge scorer
func ProvideConnectionScorer(cfg *config.Config) *domainservices.ConnectionScorer {
	return domainservices.NewConnectionScorer(cfg.Scoring.EdgeTiers)
}

// ProvideGraphBuilder creates the graph builder
func ProvideGraphBuilder(cfg *config.Config) *domainservices.GraphBuilder {
	return domainservices.NewGraphBuilder(cfg.Scoring.HubQuantile)
}

// ProvideAnnotator creates the concept annotator
func ProvideAnnotator(
	provider ports.Provider,
	extractor domainservices.ConceptExtractor,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.ConceptAnnotator {
	return services.NewConceptAnnotator(provider, extractor, metrics, logger)
}

// ProvideAnalysisService creates the analysis pipeline service
func ProvideAnalysisService(
	records []ports.PaperRecord,
	annotator *services.ConceptAnnotator,
	scorer *domainservices.ConnectionScorer,
	builder *domainservices.GraphBuilder,
	store ports.SnapshotStore,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.AnalysisService {
	return services.NewAnalysisService(records, annotator, scorer, builder, store, metrics, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, commandbus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd commandbus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(analysis *services.AnalysisService) *commandbus.CommandBus {
	bus := commandbus.NewCommandBus()

	analyzeHandler := commands.NewAnalyzeCorpusHandler(analysis)
	bus.Register(commands.AnalyzeCorpusCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd commandbus.Command) error {
			typed, ok := cmd.(commands.AnalyzeCorpusCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return analyzeHandler.Handle(ctx, typed)
		},
	})

	return bus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers. Every handler
// is wrapped with the metrics middleware so each query kind shows up in the
// collector.
func ProvideQueryBus(
	cfg *config.Config,
	store ports.SnapshotStore,
	records []ports.PaperRecord,
	provider ports.Provider,
	extractor domainservices.ConceptExtractor,
	scorer *domainservices.ConnectionScorer,
	metrics *observability.Collector,
	logger *zap.Logger,
) *querybus.QueryBus {
	bus := querybus.NewQueryBus()
	instrument := querybus.NewMetricsMiddleware(metrics)

	graphDataHandler := queryhandlers.NewGetGraphDataHandler(store, logger)
	bus.Register(queries.GetGraphDataQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.GetGraphDataQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return graphDataHandler.Handle(ctx, typed)
		},
	}))

	statsHandler := queryhandlers.NewGetStatsHandler(store)
	bus.Register(queries.GetStatsQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.GetStatsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return statsHandler.Handle(ctx, typed)
		},
	}))

	listHandler := queryhandlers.NewListPapersHandler(store, records)
	bus.Register(queries.ListPapersQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.ListPapersQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listHandler.Handle(ctx, typed)
		},
	}))

	searchHandler := queryhandlers.NewSearchPapersHandler(store, logger)
	bus.Register(queries.SearchPapersQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.SearchPapersQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return searchHandler.Handle(ctx, typed)
		},
	}))

	recommendationsHandler := queryhandlers.NewGetRecommendationsHandler(store, logger)
	bus.Register(queries.GetRecommendationsQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.GetRecommendationsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return recommendationsHandler.Handle(ctx, typed)
		},
	}))

	ragHandler := queryhandlers.NewRagQueryHandler(store, extractor, scorer, provider, cfg.Scoring, metrics, logger)
	bus.Register(queries.RagQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.RagQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return ragHandler.Handle(ctx, typed)
		},
	}))

	exploreHandler := queryhandlers.NewExploreConceptHandler(store, cfg.Scoring, logger)
	bus.Register(queries.ExploreConceptQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.ExploreConceptQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return exploreHandler.Handle(ctx, typed)
		},
	}))

	pathsHandler := queryhandlers.NewFindPathsHandler(store, cfg.Scoring, logger)
	bus.Register(queries.FindPathsQuery{}, instrument.Wrap(&QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(queries.FindPathsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return pathsHandler.Handle(ctx, typed)
		},
	}))

	return bus
}

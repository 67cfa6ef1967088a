package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"papergraph/application/commands"
	commandbus "papergraph/application/commands/bus"
	"papergraph/application/queries"
	querybus "papergraph/application/queries/bus"
)

// Service implements the tool handlers on top of the same buses the REST API
// uses, so both surfaces always agree on behavior.
type Service struct {
	commandBus *commandbus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

func NewService(commandBus *commandbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *Service {
	return &Service{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// --- Tool Handlers ---

func (s *Service) QueryPapers(ctx context.Context, req *mcp.CallToolRequest, args QueryPapersArgs) (*mcp.CallToolResult, QueryPapersResult, error) {
	result, err := s.queryBus.Ask(ctx, queries.RagQuery{
		Text:              args.Query,
		MaxResults:        args.MaxResults,
		UseGraphStructure: !args.DirectMatchesOnly,
	})
	if err != nil {
		return nil, QueryPapersResult{}, err
	}

	ranked, ok := result.(*queries.RagQueryResult)
	if !ok || ranked == nil {
		return nil, QueryPapersResult{}, fmt.Errorf("unexpected query result type %T", result)
	}

	out := QueryPapersResult{Results: make([]string, 0, len(ranked.Results))}
	for _, paper := range ranked.Results {
		out.Results = append(out.Results, formatRankedPaper(paper))
	}
	if len(out.Results) == 0 {
		out.Results = []string{"No papers matched the query."}
	}
	if ranked.Insight != nil {
		out.Insight = formatInsight(ranked.Insight)
	}

	return nil, out, nil
}

func (s *Service) ExploreConcept(ctx context.Context, req *mcp.CallToolRequest, args ExploreConceptArgs) (*mcp.CallToolResult, ExploreConceptResult, error) {
	result, err := s.queryBus.Ask(ctx, queries.ExploreConceptQuery{
		Concept: args.Concept,
		Depth:   args.Depth,
	})
	if err != nil {
		return nil, ExploreConceptResult{}, err
	}

	neighborhood, ok := result.(*queries.ExploreConceptResult)
	if !ok || neighborhood == nil {
		return nil, ExploreConceptResult{}, fmt.Errorf("unexpected query result type %T", result)
	}

	var sb strings.Builder
	if len(neighborhood.Papers) == 0 {
		fmt.Fprintf(&sb, "No analyzed paper mentions '%s'.\n", neighborhood.Concept)
	} else {
		fmt.Fprintf(&sb, "Neighborhood of '%s' (%d papers):\n", neighborhood.Concept, len(neighborhood.Papers))
		for _, paper := range neighborhood.Papers {
			position := "direct match"
			if paper.HopDistance > 0 {
				position = fmt.Sprintf("%d hops away", paper.HopDistance)
			}
			fmt.Fprintf(&sb, "- [%d] %s (%s)", paper.ID, paper.Title, position)
			if len(paper.Concepts) > 0 {
				fmt.Fprintf(&sb, " concepts: %s", strings.Join(paper.Concepts, ", "))
			}
			sb.WriteString("\n")
		}
		if len(neighborhood.Concepts) > 0 {
			sb.WriteString("\nRelated concepts:\n")
			for _, freq := range neighborhood.Concepts {
				fmt.Fprintf(&sb, "- %s (%d papers)\n", freq.Concept, freq.Count)
			}
		}
	}

	return nil, ExploreConceptResult{Description: sb.String()}, nil
}

func (s *Service) FindPaths(ctx context.Context, req *mcp.CallToolRequest, args FindPathsArgs) (*mcp.CallToolResult, FindPathsResult, error) {
	result, err := s.queryBus.Ask(ctx, queries.FindPathsQuery{
		SourceID: args.SourceID,
		TargetID: args.TargetID,
		MaxHops:  args.MaxHops,
	})
	if err != nil {
		return nil, FindPathsResult{}, err
	}

	found, ok := result.(*queries.FindPathsResult)
	if !ok || found == nil {
		return nil, FindPathsResult{}, fmt.Errorf("unexpected query result type %T", result)
	}

	paths := make([]string, 0, len(found.Paths))
	for _, path := range found.Paths {
		paths = append(paths, formatPath(path))
	}
	if len(paths) == 0 {
		paths = []string{fmt.Sprintf("No path connects papers %d and %d within the hop limit.", args.SourceID, args.TargetID)}
	}

	return nil, FindPathsResult{Paths: paths}, nil
}

func (s *Service) AnalyzeCorpus(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeCorpusArgs) (*mcp.CallToolResult, AnalyzeCorpusResult, error) {
	if err := s.commandBus.Send(ctx, commands.AnalyzeCorpusCommand{}); err != nil {
		return nil, AnalyzeCorpusResult{}, err
	}

	result, err := s.queryBus.Ask(ctx, queries.GetStatsQuery{})
	if err != nil {
		return nil, AnalyzeCorpusResult{}, err
	}

	out := AnalyzeCorpusResult{Status: "completed"}
	if stats, ok := result.(*queries.GetStatsResult); ok && stats != nil {
		out.Papers = stats.PapersCount
		out.Connections = stats.ConnectionsCount
		out.AnalyzerType = stats.AnalyzerType
	}

	return nil, out, nil
}

// formatRankedPaper renders one result as a fact line followed by the
// reasoning trace, indented so multi-line entries stay readable.
func formatRankedPaper(paper queries.RankedPaper) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d] %s (relevance %.2f, %s", paper.ID, paper.Title, paper.RelevanceScore, paper.RelevanceBand)
	if paper.HopDistance > 0 {
		fmt.Fprintf(&sb, ", %d hops away", paper.HopDistance)
	}
	sb.WriteString(")")
	if paper.Domain != "" {
		fmt.Fprintf(&sb, " [%s]", paper.Domain)
	}
	if len(paper.Concepts) > 0 {
		fmt.Fprintf(&sb, "\n    concepts: %s", strings.Join(paper.Concepts, ", "))
	}
	for _, step := range paper.Reasoning {
		fmt.Fprintf(&sb, "\n    %s", step)
	}
	return sb.String()
}

func formatInsight(insight *queries.Insight) string {
	var parts []string
	if insight.Content != "" {
		parts = append(parts, insight.Content)
	}
	if len(insight.Themes) > 0 {
		parts = append(parts, "Recurring themes: "+strings.Join(insight.Themes, ", "))
	}
	if len(insight.Domains) > 0 {
		shares := make([]string, 0, len(insight.Domains))
		for _, share := range insight.Domains {
			shares = append(shares, fmt.Sprintf("%s (%d)", share.Domain, share.Count))
		}
		parts = append(parts, "Domains: "+strings.Join(shares, ", "))
	}
	return strings.Join(parts, "\n")
}

// formatPath renders a path as "[1] A --(bone, density)--> [3] B"
func formatPath(path queries.Path) string {
	var sb strings.Builder
	for i, paper := range path.Papers {
		if i > 0 {
			step := path.Steps[i-1]
			fmt.Fprintf(&sb, " --(%s)--> ", strings.Join(step.SharedConcepts, ", "))
		}
		fmt.Fprintf(&sb, "[%d] %s", paper.ID, paper.Title)
	}
	return sb.String()
}

package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	commandbus "papergraph/application/commands/bus"
	querybus "papergraph/application/queries/bus"
)

// NewServer builds the MCP server that exposes the paper graph to agent
// clients. The caller picks the transport and runs it.
func NewServer(commandBus *commandbus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *mcp.Server {
	service := NewService(commandBus, queryBus, logger)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "papergraph",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "query_papers",
		Description: "Answer a research question with ranked papers from the analyzed graph, including why each paper was selected.",
	}, service.QueryPapers)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "explore_concept",
		Description: "List the papers mentioning a concept and the related concepts that appear around them.",
	}, service.ExploreConcept)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "find_paths",
		Description: "Show how two papers are connected through chains of shared concepts.",
	}, service.FindPaths)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "analyze_corpus",
		Description: "Run the analysis pipeline over the loaded corpus and publish a fresh graph. Run this before the query tools.",
	}, service.AnalyzeCorpus)

	return s
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"papergraph/infrastructure/config"
	"papergraph/infrastructure/di"
	mcpserver "papergraph/interfaces/mcp"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	// stdout carries the protocol; zap writes to stderr so the two never mix
	server := mcpserver.NewServer(container.CommandBus, container.QueryBus, container.Logger)

	container.Logger.Info("MCP server listening on stdio",
		zap.Int("papers", len(container.Records)),
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Fatal("MCP server stopped", zap.Error(err))
	}

	container.Logger.Sync()
}

package ports

import (
	"context"
	"time"

	"papergraph/domain/core/aggregates"
)

// PaperRecord is one row of the source corpus before analysis
type PaperRecord struct {
	Title string
	Link  string
}

// CorpusSource loads the raw paper collection. Implementations must preserve
// file order so paper ids stay stable across analysis runs.
type CorpusSource interface {
	Load(ctx context.Context) ([]PaperRecord, error)
}

// CompletionOptions tune a single provider call
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// Provider is the port for LLM text completion. Implementations decide
// availability from their own configuration; callers must treat an
// unavailable provider as a signal to use deterministic fallbacks.
type Provider interface {
	// Complete sends a prompt and returns the raw completion text
	Complete(ctx context.Context, prompt string, options CompletionOptions) (string, error)

	// IsAvailable reports whether the provider is configured and usable
	IsAvailable() bool

	// Name identifies the provider in logs and stats
	Name() string
}

// Snapshot is one published analysis result: the graph plus run metadata.
// Snapshots are immutable; re-analysis publishes a new one.
type Snapshot struct {
	// RunID correlates log lines and stats with the run that produced them
	RunID        string
	Graph        *aggregates.Graph
	AnalyzerType string
	AnalyzedAt   time.Time
	Duration     time.Duration
}

// SnapshotStore holds the currently published snapshot. Publish must be
// atomic with respect to Current so readers never observe partial state.
type SnapshotStore interface {
	// Current returns the published snapshot, or nil before first analysis
	Current() *Snapshot

	// Publish replaces the published snapshot in one step
	Publish(snapshot *Snapshot)
}

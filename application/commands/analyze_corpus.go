package commands

import (
	"context"

	"papergraph/application/services"
)

// AnalyzeCorpusCommand requests a full analysis of the loaded corpus. It
// carries no parameters: a run always covers every loaded paper and replaces
// the published graph wholesale.
type AnalyzeCorpusCommand struct{}

// Validate implements the command contract; there is nothing to check
func (c AnalyzeCorpusCommand) Validate() error {
	return nil
}

// AnalyzeCorpusHandler handles the AnalyzeCorpusCommand
type AnalyzeCorpusHandler struct {
	analysis *services.AnalysisService
}

// NewAnalyzeCorpusHandler creates a new handler instance
func NewAnalyzeCorpusHandler(analysis *services.AnalysisService) *AnalyzeCorpusHandler {
	return &AnalyzeCorpusHandler{analysis: analysis}
}

// Handle executes the analyze corpus command. Callers read the published
// snapshot afterwards for the run's results.
func (h *AnalyzeCorpusHandler) Handle(ctx context.Context, cmd AnalyzeCorpusCommand) error {
	_, err := h.analysis.Analyze(ctx)
	return err
}

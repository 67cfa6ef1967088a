package errors

import "fmt"

// Common domain errors. Constructed fresh on each call so callers can attach
// details without sharing state.

// ErrGraphNotReady reports a query issued before any analysis has published a
// graph. Mapped to a client error, the caller must run an analysis first.
func ErrGraphNotReady() *AppError {
	return NewPreconditionError("graph not ready: run an analysis first").
		WithCode("GRAPH_NOT_READY")
}

// ErrAnalysisInProgress reports a second analysis requested while one is
// already running. Retryable once the running analysis finishes.
func ErrAnalysisInProgress() *AppError {
	return NewConflictError("analysis already in progress").
		WithCode("ANALYSIS_IN_PROGRESS").
		WithRetryable(true)
}

// ErrEmptyQuery reports a semantic query with no usable text.
func ErrEmptyQuery() *AppError {
	return NewValidationError("query text is required").
		WithCode("EMPTY_QUERY")
}

// ErrPaperNotFound reports a paper id that does not exist in the corpus.
func ErrPaperNotFound(id int) *AppError {
	return NewNotFoundError(fmt.Sprintf("paper %d", id)).
		WithCode("PAPER_NOT_FOUND")
}

// ErrNoSourceData reports an empty or unreadable paper corpus.
func ErrNoSourceData(path string) *AppError {
	return NewConfigurationError(fmt.Sprintf("no source data available at %q", path)).
		WithCode("NO_SOURCE_DATA")
}

// ErrSelfEdge reports an attempt to connect a paper to itself.
func ErrSelfEdge(id int) *AppError {
	return NewValidationError(fmt.Sprintf("paper %d cannot connect to itself", id)).
		WithCode("SELF_EDGE")
}

// ErrDuplicateEdge reports a second edge for an already connected pair.
func ErrDuplicateEdge(a, b int) *AppError {
	return NewConflictError(fmt.Sprintf("edge between papers %d and %d already exists", a, b)).
		WithCode("DUPLICATE_EDGE")
}

// ErrProviderUnavailable reports that the external completion provider cannot
// serve (missing credential or open circuit). Callers fall back locally.
func ErrProviderUnavailable(provider string) *AppError {
	return NewUnavailableError(provider).
		WithCode("PROVIDER_UNAVAILABLE").
		WithRetryable(true)
}

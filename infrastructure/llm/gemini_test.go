package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/pkg/errors"
)

func TestGeminiProvider_UnconfiguredKeyMeansUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
	}{
		{name: "empty key", apiKey: ""},
		{name: "placeholder key", apiKey: "your_gemini_api_key_here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			provider := NewGeminiProvider(GeminiConfig{APIKey: tt.apiKey}, zap.NewNop())

			// Act
			_, err := provider.Complete(context.Background(), "prompt", ports.CompletionOptions{})

			// Assert
			assert.False(t, provider.IsAvailable())
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))
		})
	}
}

func TestGeminiProvider_CompleteReturnsCandidateText(t *testing.T) {
	// Arrange
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"bone loss "},{"text":"accelerates in orbit"}]}}]}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, zap.NewNop())

	// Act
	text, err := provider.Complete(context.Background(), "summarize", ports.CompletionOptions{MaxTokens: 128})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "bone loss accelerates in orbit", text)
	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
}

func TestGeminiProvider_CompleteFailsOnEmptyCandidates(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	provider := NewGeminiProvider(GeminiConfig{APIKey: "test-key", BaseURL: server.URL}, zap.NewNop())

	// Act
	_, err := provider.Complete(context.Background(), "summarize", ports.CompletionOptions{})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiProvider_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewGeminiProvider(GeminiConfig{APIKey: "test-key", BaseURL: server.URL}, zap.NewNop())

	// Act
	for i := 0; i < 3; i++ {
		_, err := provider.Complete(context.Background(), "prompt", ports.CompletionOptions{})
		require.Error(t, err)
	}

	// Assert
	assert.False(t, provider.IsAvailable())
	_, err := provider.Complete(context.Background(), "prompt", ports.CompletionOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/pkg/errors"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second

	// placeholderKey is the unconfigured value shipped in example env files.
	// It counts as no key at all.
	placeholderKey = "your_gemini_api_key_here"
)

// GeminiConfig holds the provider settings
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiProvider calls the Gemini generateContent REST API. Without a usable
// key the provider reports unavailable and the system runs fully local. All
// calls go through a circuit breaker so a failing upstream degrades to local
// fallbacks quickly instead of stalling every analysis.
type GeminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	configured bool
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewGeminiProvider creates the provider and logs once whether it will
// serve. Missing or placeholder keys are not an error, only a mode.
func NewGeminiProvider(cfg GeminiConfig, logger *zap.Logger) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	configured := cfg.APIKey != "" && cfg.APIKey != placeholderKey
	if configured {
		logger.Info("Gemini provider enabled", zap.String("model", cfg.Model))
	} else {
		logger.Info("Gemini provider disabled, analysis runs in local mode")
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Provider circuit state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &GeminiProvider{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		configured: configured,
		client:     &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// Name identifies the provider in logs and metrics
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable reports whether a call right now could plausibly succeed. An
// open circuit counts as unavailable so batch callers skip straight to their
// local fallbacks.
func (p *GeminiProvider) IsAvailable() bool {
	return p.configured && p.breaker.State() != gobreaker.StateOpen
}

// Complete sends one prompt and returns the model's text response
func (p *GeminiProvider) Complete(ctx context.Context, prompt string, options ports.CompletionOptions) (string, error) {
	if !p.configured {
		return "", errors.ErrProviderUnavailable(p.Name())
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.generate(ctx, prompt, options)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return "", errors.ErrProviderUnavailable(p.Name()).WithCause(err)
	}
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

type generateRequest struct {
	Contents         []requestContent  `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type requestContent struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate performs the raw REST call
func (p *GeminiProvider) generate(ctx context.Context, prompt string, options ports.CompletionOptions) (string, error) {
	payload := generateRequest{
		Contents: []requestContent{
			{Parts: []contentPart{{Text: prompt}}},
		},
	}
	if options.MaxTokens > 0 || options.Temperature > 0 {
		payload.GenerationConfig = &generationConfig{
			MaxOutputTokens: options.MaxTokens,
			Temperature:     options.Temperature,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, p.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("provider returned no candidates")
	}

	var text strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

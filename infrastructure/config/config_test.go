package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincfg "papergraph/domain/config"
)

// pointEnvAt pins CONFIG_FILE to path and clears every other variable the
// loader consults, so the host environment cannot leak into assertions.
func pointEnvAt(t *testing.T, path string) {
	t.Helper()
	t.Setenv("CONFIG_FILE", path)
	for _, key := range []string{"SERVER_ADDRESS", "ENVIRONMENT", "ALLOWED_ORIGINS", "CORPUS_PATH", "GEMINI_API_KEY", "GEMINI_MODEL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papergraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_DefaultsWithoutOverlay(t *testing.T) {
	// Arrange
	pointEnvAt(t, filepath.Join(t.TempDir(), "absent.yaml"))

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "SB_publication_PMC.csv", cfg.CorpusPath)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, domaincfg.DefaultScoringConfig(), cfg.Scoring)
	assert.Empty(t, cfg.OverlayPath)
}

func TestLoadConfig_OverlayMergesIntoDefaults(t *testing.T) {
	// Arrange
	path := writeOverlay(t, `
server_address: ":9000"
environment: production
scoring:
  hop_budget: 3
`)
	pointEnvAt(t, path)

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, path, cfg.OverlayPath)

	// Keys absent from the overlay keep their defaults, including inside
	// the scoring block
	assert.Equal(t, "SB_publication_PMC.csv", cfg.CorpusPath)
	assert.Equal(t, 3, cfg.Scoring.HopBudget)
	assert.Equal(t, 0.6, cfg.Scoring.HopDecay)
}

func TestLoadConfig_EnvironmentBeatsOverlay(t *testing.T) {
	// Arrange
	path := writeOverlay(t, "server_address: \":9000\"\n")
	pointEnvAt(t, path)
	t.Setenv("SERVER_ADDRESS", ":7777")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.ServerAddress)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfig_MalformedOverlay(t *testing.T) {
	// Arrange
	path := writeOverlay(t, "server_address: [unclosed\n")
	pointEnvAt(t, path)

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config overlay")
	assert.Nil(t, cfg)
}

func TestLoadConfig_RejectsInvalidScoring(t *testing.T) {
	// Arrange
	path := writeOverlay(t, `
scoring:
  hop_decay: 1.5
`)
	pointEnvAt(t, path)

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hop decay")
	assert.Nil(t, cfg)
}

func TestConfig_EnvironmentChecks(t *testing.T) {
	tests := []struct {
		environment string
		development bool
		production  bool
	}{
		{"development", true, false},
		{"production", false, true},
		{"staging", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			cfg := &Config{Environment: tt.environment}

			assert.Equal(t, tt.development, cfg.IsDevelopment())
			assert.Equal(t, tt.production, cfg.IsProduction())
		})
	}
}

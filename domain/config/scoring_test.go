package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoringConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultScoringConfig().Validate())
}

func TestScoringConfig_ValidateRejectsInconsistentValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScoringConfig)
		wantErr string
	}{
		{
			name:    "medium tier above strong",
			mutate:  func(c *ScoringConfig) { c.EdgeTiers.Medium = 0.75 },
			wantErr: "edge tiers",
		},
		{
			name:    "weak tier not positive",
			mutate:  func(c *ScoringConfig) { c.EdgeTiers.Weak = 0 },
			wantErr: "edge tiers",
		},
		{
			name:    "high band above one",
			mutate:  func(c *ScoringConfig) { c.Bands.High = 1.2 },
			wantErr: "relevance bands",
		},
		{
			name:    "negative hop budget",
			mutate:  func(c *ScoringConfig) { c.HopBudget = -1 },
			wantErr: "hop budget",
		},
		{
			name:    "hop decay of one never attenuates",
			mutate:  func(c *ScoringConfig) { c.HopDecay = 1.0 },
			wantErr: "hop decay",
		},
		{
			name:    "zero max results",
			mutate:  func(c *ScoringConfig) { c.DefaultMaxResults = 0 },
			wantErr: "max results",
		},
		{
			name:    "zero max paths",
			mutate:  func(c *ScoringConfig) { c.MaxPathsPerQuery = 0 },
			wantErr: "max paths",
		},
		{
			name:    "hub quantile of one",
			mutate:  func(c *ScoringConfig) { c.HubQuantile = 1.0 },
			wantErr: "hub quantile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := DefaultScoringConfig()
			tt.mutate(cfg)

			// Act
			err := cfg.Validate()

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScoringConfig_ZeroHopBudgetIsValid(t *testing.T) {
	// A zero budget disables expansion but is a legitimate configuration
	cfg := DefaultScoringConfig()
	cfg.HopBudget = 0

	assert.NoError(t, cfg.Validate())
}

func TestScoringConfig_CloneIsIndependent(t *testing.T) {
	// Arrange
	original := DefaultScoringConfig()

	// Act
	clone := original.Clone()
	clone.HopBudget = 9
	clone.EdgeTiers.Strong = 0.95

	// Assert
	assert.Equal(t, 2, original.HopBudget)
	assert.Equal(t, 0.70, original.EdgeTiers.Strong)
}

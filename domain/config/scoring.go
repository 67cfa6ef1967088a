package config

import "fmt"

// TierThresholds classifies edge scores into connection strength tiers.
// A score below Weak produces no edge at all.
type TierThresholds struct {
	Strong float64 `yaml:"strong"`
	Medium float64 `yaml:"medium"`
	Weak   float64 `yaml:"weak"`
}

// RelevanceBands labels query result scores for display. These are a separate
// scale from the edge tiers: tiers shape the graph, bands only describe how
// well a result matched a query. Keeping them independent is intentional.
type RelevanceBands struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
	Lower  float64 `yaml:"lower"`
}

// ScoringConfig holds all tunable parameters of the analysis and query
// pipeline.
type ScoringConfig struct {
	EdgeTiers TierThresholds `yaml:"edge_tiers"`
	Bands     RelevanceBands `yaml:"relevance_bands"`

	// Query engine parameters
	HopBudget           int     `yaml:"hop_budget"`
	HopDecay            float64 `yaml:"hop_decay"`
	DefaultMaxResults   int     `yaml:"default_max_results"`
	DefaultExploreDepth int     `yaml:"default_explore_depth"`
	DefaultMaxHops      int     `yaml:"default_max_hops"`
	MaxPathsPerQuery    int     `yaml:"max_paths_per_query"`

	// Graph builder parameters
	HubQuantile float64 `yaml:"hub_quantile"`
}

// DefaultScoringConfig returns the default scoring configuration
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		EdgeTiers: TierThresholds{
			Strong: 0.70,
			Medium: 0.50,
			Weak:   0.30,
		},
		Bands: RelevanceBands{
			High:   0.80,
			Medium: 0.50,
			Lower:  0.30,
		},
		HopBudget:           2,
		HopDecay:            0.6,
		DefaultMaxResults:   10,
		DefaultExploreDepth: 2,
		DefaultMaxHops:      3,
		MaxPathsPerQuery:    5,
		HubQuantile:         0.90,
	}
}

// Validate checks that the configuration is internally consistent
func (c *ScoringConfig) Validate() error {
	if !(c.EdgeTiers.Weak > 0 && c.EdgeTiers.Weak < c.EdgeTiers.Medium && c.EdgeTiers.Medium < c.EdgeTiers.Strong && c.EdgeTiers.Strong <= 1) {
		return fmt.Errorf("edge tiers must satisfy 0 < weak < medium < strong <= 1, got %+v", c.EdgeTiers)
	}
	if !(c.Bands.Lower > 0 && c.Bands.Lower < c.Bands.Medium && c.Bands.Medium < c.Bands.High && c.Bands.High <= 1) {
		return fmt.Errorf("relevance bands must satisfy 0 < lower < medium < high <= 1, got %+v", c.Bands)
	}
	if c.HopBudget < 0 {
		return fmt.Errorf("hop budget cannot be negative")
	}
	if c.HopDecay <= 0 || c.HopDecay >= 1 {
		return fmt.Errorf("hop decay must be in (0, 1), got %v", c.HopDecay)
	}
	if c.DefaultMaxResults < 1 {
		return fmt.Errorf("default max results must be at least 1")
	}
	if c.MaxPathsPerQuery < 1 {
		return fmt.Errorf("max paths per query must be at least 1")
	}
	if c.HubQuantile <= 0 || c.HubQuantile >= 1 {
		return fmt.Errorf("hub quantile must be in (0, 1), got %v", c.HubQuantile)
	}
	return nil
}

// Clone returns a copy so hot reloads never mutate a config already handed
// to running components.
func (c *ScoringConfig) Clone() *ScoringConfig {
	clone := *c
	return &clone
}

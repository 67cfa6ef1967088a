package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domaincfg "papergraph/domain/config"
)

// Config holds all application configuration. Values load in order of
// defaults, then the optional yaml overlay file, then environment variables.
type Config struct {
	// Server configuration
	ServerAddress  string   `yaml:"server_address"`
	Environment    string   `yaml:"environment"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Corpus configuration
	CorpusPath string `yaml:"corpus_path"`

	// Provider configuration
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Scoring holds the analysis and query tuning parameters
	Scoring *domaincfg.ScoringConfig `yaml:"scoring"`

	// OverlayPath is the yaml file that was applied, when one exists. The
	// development watcher re-reads this file on change.
	OverlayPath string `yaml:"-"`
}

// LoadConfig loads configuration from the overlay file and environment
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	overlay := getEnv("CONFIG_FILE", "papergraph.yaml")
	if err := cfg.applyOverlay(overlay); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:  ":8080",
		Environment:    "development",
		AllowedOrigins: []string{"*"},
		CorpusPath:     "SB_publication_PMC.csv",
		GeminiModel:    "gemini-2.5-flash",
		LogLevel:       "info",
		Scoring:        domaincfg.DefaultScoringConfig(),
	}
}

// applyOverlay merges the yaml file into the config. A missing file is not
// an error; a malformed one is.
func (c *Config) applyOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config overlay %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config overlay %s: %w", path, err)
	}
	c.OverlayPath = path
	return nil
}

// applyEnvironment overlays environment variables, the highest priority
// source
func (c *Config) applyEnvironment() {
	if val := os.Getenv("SERVER_ADDRESS"); val != "" {
		c.ServerAddress = val
	}
	if val := os.Getenv("ENVIRONMENT"); val != "" {
		c.Environment = val
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		origins := strings.Split(val, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.AllowedOrigins = origins
	}
	if val := os.Getenv("CORPUS_PATH"); val != "" {
		c.CorpusPath = val
	}
	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		c.GeminiAPIKey = val
	}
	if val := os.Getenv("GEMINI_MODEL"); val != "" {
		c.GeminiModel = val
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.CorpusPath == "" {
		return fmt.Errorf("corpus path cannot be empty")
	}
	if c.Scoring == nil {
		return fmt.Errorf("scoring configuration missing")
	}
	return c.Scoring.Validate()
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

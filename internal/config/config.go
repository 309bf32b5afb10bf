package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the client.
type Config struct {
	API       APIConfig
	DBPath    string
	WordAssoc WordAssocConfig
}

// APIConfig holds the practice-platform backend configuration.
type APIConfig struct {
	BaseURL string
	Token   string

	// Timeout is the maximum duration for a single API request,
	// excluding retries. Default: 30s.
	Timeout time.Duration
}

// WordAssocConfig tunes the timed word-association exercise.
type WordAssocConfig struct {
	// BudgetSec is the per-word response window. Default: 15.
	BudgetSec int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://api.psyprep.app",
			Timeout: 30 * time.Second,
		},
		WordAssoc: WordAssocConfig{
			BudgetSec: 15,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. A .env file in the working directory is
// loaded first; missing files are ignored.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if u := os.Getenv("PSYPREP_API_URL"); u != "" {
		cfg.API.BaseURL = u
	}
	if t := os.Getenv("PSYPREP_TOKEN"); t != "" {
		cfg.API.Token = t
	}
	if d := os.Getenv("PSYPREP_API_TIMEOUT"); d != "" {
		if dur, err := time.ParseDuration(d); err == nil && dur > 0 {
			cfg.API.Timeout = dur
		}
	}
	if p := os.Getenv("PSYPREP_DB"); p != "" {
		cfg.DBPath = p
	}
	if b := os.Getenv("PSYPREP_WAT_BUDGET"); b != "" {
		if n, err := strconv.Atoi(b); err == nil && n > 0 {
			cfg.WordAssoc.BudgetSec = n
		}
	}

	return cfg
}

// Validate checks that the configuration can reach the backend.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("PSYPREP_API_URL must not be empty")
	}
	if c.API.Token == "" {
		return fmt.Errorf("PSYPREP_TOKEN is required to fetch prompts and submit sessions")
	}
	if c.WordAssoc.BudgetSec <= 0 {
		return fmt.Errorf("word-association budget must be positive, got %d", c.WordAssoc.BudgetSec)
	}
	return nil
}

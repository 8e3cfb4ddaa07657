package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retry attempts after a 429 response (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LookupConfig holds settings for citation-count lookups.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// DefaultProvider is the provider used when none is named on the
	// command line: "crossref", "inspire", "semanticscholar", or "nasaads".
	DefaultProvider string `json:"default_provider" yaml:"default_provider"`

	// ADSAPIKey is the NASA ADS token. It is re-read for every request,
	// so changes made while a batch runs take effect immediately.
	ADSAPIKey string `json:"ads_api_key,omitempty" yaml:"ads_api_key,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// SemanticScholarDelay is the mandatory pause after each Semantic
	// Scholar response (default 3s).
	SemanticScholarDelay time.Duration `json:"semantic_scholar_delay" yaml:"semantic_scholar_delay"`
}

// BatchConfig holds settings for batch update runs.
type BatchConfig struct {
	// RecordDelay is the pause between consecutive records (default 0).
	RecordDelay time.Duration `json:"record_delay" yaml:"record_delay"`

	// DryRun resolves counts without writing them back to the store.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}

// StoreConfig holds settings for the record store.
type StoreConfig struct {
	// Path is the SQLite database file (e.g. "data/records.db").
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig holds settings for diagnostic output.
type LoggingConfig struct {
	// Level is the zerolog level name: debug, info, warn, error, or disabled.
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// Config groups all component configurations.
type Config struct {
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup"`
	Batch   BatchConfig   `json:"batch" yaml:"batch"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file or flags are given.
func DefaultConfig() Config {
	return Config{
		Lookup: LookupConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    30 * time.Second,
				UserAgent:  "citation-engine/0.1",
				MaxRetries: 2,
			},
			DefaultProvider:      "crossref",
			SemanticScholarDelay: 3 * time.Second,
		},
		Store: StoreConfig{
			Path: "data/records.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

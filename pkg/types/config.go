// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "get-papers-list/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// PubMedConfig holds settings for the NCBI E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root (ends in "/eutils").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults caps the number of PMIDs requested from esearch (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Tool and Email identify the caller to NCBI, as their usage policy asks.
	Tool  string `json:"tool" yaml:"tool" mapstructure:"tool"`
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// RateLimit is requests per second. Zero picks 3, or 10 with an APIKey.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ClassifierConfig holds settings for the affiliation classifier.
type ClassifierConfig struct {
	// KeywordsFile is an optional YAML file overriding the keyword lists.
	KeywordsFile string `json:"keywords_file,omitempty" yaml:"keywords_file,omitempty" mapstructure:"keywords_file"`
}

// OutputConfig holds settings for report output.
type OutputConfig struct {
	// Format selects csv, table, json or yaml.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// File is the report destination. Empty means stdout.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// Database is an optional SQLite file that receives every matched paper.
	Database string `json:"database,omitempty" yaml:"database,omitempty" mapstructure:"database"`
}

// PipelineConfig groups all configuration for one run.
type PipelineConfig struct {
	PubMed     PubMedConfig     `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier" mapstructure:"classifier"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
}

// DefaultPipelineConfig returns the settings used when nothing is configured.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		PubMed: PubMedConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "get-papers-list/0.1",
			},
			BaseURL:    "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
			MaxResults: 50,
			Tool:       "get-papers-list",
			MaxRetries: 5,
		},
		Output: OutputConfig{
			Format: "csv",
		},
	}
}

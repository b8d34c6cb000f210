// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/get-papers-list/internal/secrets"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// setConfigDefaults registers every configuration key so that environment
// variables (GET_PAPERS_LIST_PUBMED_API_KEY, ...) are seen by Unmarshal.
func setConfigDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()
	v.SetDefault("pubmed.base_url", d.PubMed.BaseURL)
	v.SetDefault("pubmed.max_results", d.PubMed.MaxResults)
	v.SetDefault("pubmed.timeout", d.PubMed.Timeout)
	v.SetDefault("pubmed.user_agent", d.PubMed.UserAgent)
	v.SetDefault("pubmed.tool", d.PubMed.Tool)
	v.SetDefault("pubmed.email", "")
	v.SetDefault("pubmed.api_key", "")
	v.SetDefault("pubmed.rate_limit", 0.0)
	v.SetDefault("pubmed.max_retries", d.PubMed.MaxRetries)
	v.SetDefault("classifier.keywords_file", "")
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.file", "")
	v.SetDefault("output.database", "")
}

// loadConfig decodes v into a PipelineConfig. NCBI credentials missing from
// the configuration are taken from the secrets directory, then from
// NCBI_API_KEY / NCBI_EMAIL.
func loadConfig(v *viper.Viper, loaded map[string]string) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}

	if cfg.PubMed.APIKey == "" {
		cfg.PubMed.APIKey = secrets.Lookup(loaded, secrets.APIKey, secrets.APIKeyEnv)
	}
	if cfg.PubMed.Email == "" {
		cfg.PubMed.Email = secrets.Lookup(loaded, secrets.Email, secrets.EmailEnv)
	}

	if cfg.PubMed.MaxResults < 0 {
		return cfg, fmt.Errorf("max results must not be negative, got %d", cfg.PubMed.MaxResults)
	}
	if cfg.PubMed.RateLimit < 0 {
		return cfg, fmt.Errorf("rate limit must not be negative, got %v", cfg.PubMed.RateLimit)
	}
	return cfg, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anupamaminj/pubmed-fetch-paper/internal/pubmed"
	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, pubmed.DefaultBaseURL, cfg.PubMed.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.PubMed.Timeout)
	// Zero so the client can resolve the policy default for the key
	// situation (3 req/s bare, 10 keyed).
	assert.Equal(t, 0.0, cfg.PubMed.RateLimit)
	assert.Equal(t, 100, cfg.PubMed.PageSize)
	assert.Equal(t, 200, cfg.PubMed.BatchSize)
	assert.Equal(t, 3, cfg.PubMed.MaxRetries)
	assert.Equal(t, 20, cfg.Pipeline.MaxResults)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
	assert.Equal(t, time.Duration(0), cfg.Pipeline.RunTimeout)
	assert.Empty(t, cfg.PubMed.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pubmed-fetch-paper.yaml")
	content := `
pubmed:
  rate_limit: 8
  batch_size: 50
  api_key: abc123
pipeline:
  max_results: 100
  workers: 5
  run_timeout: 2m
classifier:
  keywords_file: keywords.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 8.0, cfg.PubMed.RateLimit)
	assert.Equal(t, 50, cfg.PubMed.BatchSize)
	assert.Equal(t, "abc123", cfg.PubMed.APIKey)
	assert.Equal(t, 100, cfg.Pipeline.MaxResults)
	assert.Equal(t, 5, cfg.Pipeline.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Pipeline.RunTimeout)
	assert.Equal(t, "keywords.yaml", cfg.Classifier.KeywordsFile)

	// Unmentioned keys keep their defaults.
	assert.Equal(t, pubmed.DefaultBaseURL, cfg.PubMed.BaseURL)
	assert.Equal(t, 100, cfg.PubMed.PageSize)
}

func TestLoadedAPIKeyRaisesClientRate(t *testing.T) {
	v := viper.New()
	v.Set("pubmed.api_key", "nk_abc123")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.PubMed.RateLimit)

	client := pubmed.NewClient(cfg.PubMed, zerolog.Nop())
	assert.Equal(t, 10.0, client.RateLimit())

	// Without a key the policy default stays at 3 req/s.
	bare, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 3.0, pubmed.NewClient(bare.PubMed, zerolog.Nop()).RateLimit())

	// An explicit configured rate always wins over the key default.
	v.Set("pubmed.rate_limit", 5)
	cfg, err = Load(v)
	require.NoError(t, err)
	assert.Equal(t, 5.0, pubmed.NewClient(cfg.PubMed, zerolog.Nop()).RateLimit())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "rate limit above ncbi cap", key: "pubmed.rate_limit", value: 50},
		{name: "oversized batch", key: "pubmed.batch_size", value: 1000},
		{name: "too many workers", key: "pipeline.workers", value: 64},
		{name: "negative retries", key: "pubmed.max_retries", value: -1},
		{name: "base url not a url", key: "pubmed.base_url", value: "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestValidateViolationNamesField(t *testing.T) {
	cfg := types.Config{}
	cfg.PubMed.BaseURL = pubmed.DefaultBaseURL
	cfg.PubMed.RateLimit = 25

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RateLimit")
	assert.Contains(t, err.Error(), "lte")
}

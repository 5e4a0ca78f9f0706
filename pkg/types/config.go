package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-fetch-paper/0.1").
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the E-utilities retrieval client. It is
// passed into the client constructor; the client keeps no ambient global
// state beyond the endpoint seams tests substitute.
type PubMedConfig struct {
	HTTPConfig `mapstructure:",squash" yaml:",inline"`

	// BaseURL is the E-utilities base URL
	// (default "https://eutils.ncbi.nlm.nih.gov/entrez/eutils").
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`

	// APIKey is an optional NCBI API key. Without one the usage policy
	// allows 3 requests per second; with one, 10.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`

	// RateLimit is the sustained request rate in requests per second.
	// Zero selects the policy default for the key situation.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0,lte=10"`

	// PageSize is the number of identifiers requested per esearch page
	// (retmax, default 100).
	PageSize int `mapstructure:"page_size" yaml:"page_size" validate:"gte=0,lte=10000"`

	// BatchSize is the number of identifiers sent per efetch request
	// (default 200). The API rejects oversized identifier lists.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size" validate:"gte=0,lte=500"`

	// MaxRetries is the number of retry attempts for a failing request
	// (default 3).
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0,lte=10"`
}

// PipelineConfig holds settings for the pipeline orchestrator.
type PipelineConfig struct {
	// MaxResults bounds the number of identifiers taken from the search
	// phase (default 20).
	MaxResults int `mapstructure:"max_results" yaml:"max_results" validate:"gte=0"`

	// Workers is the number of fetch batches in flight at once (default 3).
	// The shared rate limiter still caps the overall request rate.
	Workers int `mapstructure:"workers" yaml:"workers" validate:"gte=0,lte=16"`

	// RunTimeout bounds the whole run. When exceeded, no new batches are
	// issued and the partial result is flagged incomplete. Zero disables it.
	RunTimeout time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
}

// ClassifierConfig holds settings for the affiliation classifier.
type ClassifierConfig struct {
	// KeywordsFile is an optional YAML file that extends or replaces the
	// built-in academic and industry keyword sets.
	KeywordsFile string `mapstructure:"keywords_file" yaml:"keywords_file,omitempty"`
}

// Config groups all stage configurations.
type Config struct {
	PubMed     PubMedConfig     `mapstructure:"pubmed" yaml:"pubmed"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline" yaml:"pipeline"`
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
}

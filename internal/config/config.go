// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the tool configuration from viper: defaults, an
// optional YAML file, and PUBMED_FETCH_* environment variables, in
// ascending precedence. Flags override on top in the CLI layer.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/anupamaminj/pubmed-fetch-paper/internal/pubmed"
	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// SetDefaults registers the default value for every key so that a bare
// run needs no config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pubmed.base_url", pubmed.DefaultBaseURL)
	v.SetDefault("pubmed.timeout", "30s")
	v.SetDefault("pubmed.user_agent", "pubmed-fetch-paper")
	// rate_limit has no default: zero means "policy default", which the
	// client resolves to 3 req/s, or 10 when an API key is configured.
	v.SetDefault("pubmed.page_size", 100)
	v.SetDefault("pubmed.batch_size", 200)
	v.SetDefault("pubmed.max_retries", 3)

	v.SetDefault("pipeline.max_results", 20)
	v.SetDefault("pipeline.workers", 3)
	v.SetDefault("pipeline.run_timeout", "0s")

	v.SetDefault("classifier.keywords_file", "")
}

// Validate checks field constraints and reports the first set of
// violations as one error.
func Validate(cfg types.Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %s", describeViolations(verrs))
		}
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

func describeViolations(verrs validator.ValidationErrors) string {
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
	}
	return msg
}

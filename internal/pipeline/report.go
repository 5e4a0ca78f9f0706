// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

// Report is the on-disk record of a run: the query, the configuration
// that shaped it, the statistics, and the rows it produced. Analysts keep
// these alongside the CSV for provenance.
type Report struct {
	Query     string               `yaml:"query"`
	Config    types.PipelineConfig `yaml:"config"`
	Stats     types.RunStats       `yaml:"stats"`
	Rows      []types.OutputRow    `yaml:"rows,omitempty"`
	Errors    []string             `yaml:"errors,omitempty"`
	Timestamp time.Time            `yaml:"timestamp"`
}

// BuildReport assembles a Report from a finished run.
func BuildReport(query string, cfg types.PipelineConfig, res Result, now time.Time) Report {
	rep := Report{
		Query:     query,
		Config:    cfg,
		Stats:     res.Stats,
		Rows:      res.Rows,
		Timestamp: now.UTC(),
	}
	for _, err := range res.BatchErrors {
		rep.Errors = append(rep.Errors, err.Error())
	}
	for _, err := range res.ParseErrors {
		rep.Errors = append(rep.Errors, err.Error())
	}
	return rep
}

// SaveReport writes the report as YAML to path.
func SaveReport(rep Report, path string) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anupamaminj/pubmed-fetch-paper/internal/classify"
	"github.com/anupamaminj/pubmed-fetch-paper/internal/config"
	"github.com/anupamaminj/pubmed-fetch-paper/internal/logging"
	"github.com/anupamaminj/pubmed-fetch-paper/internal/output"
	"github.com/anupamaminj/pubmed-fetch-paper/internal/pipeline"
	"github.com/anupamaminj/pubmed-fetch-paper/internal/pubmed"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [query]",
	Short: "Search PubMed and list papers with industry-affiliated authors",
	Long: `Fetch runs the whole flow for one query: search PubMed for matching
identifiers, retrieve the records in batches, classify each author's
affiliation, and print the papers that have at least one pharmaceutical or
biotech company author. The query uses PubMed's full term syntax, so field
tags and boolean operators work as they do on pubmed.gov.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringP("file", "f", "", "write results to this file instead of stdout")
	fetchCmd.Flags().BoolP("debug", "d", false, "enable debug logging")
	fetchCmd.Flags().Int("max-results", 0, "maximum number of search results to process (default 20)")
	fetchCmd.Flags().String("format", "csv", "output format: csv, table, or json")
	fetchCmd.Flags().Duration("timeout", 0, "overall run timeout (default none)")
	fetchCmd.Flags().Int("workers", 0, "concurrent fetch batches (default 3)")
	fetchCmd.Flags().String("api-key", "", "NCBI API key (raises the rate limit to 10 req/s)")
	fetchCmd.Flags().String("keywords", "", "YAML file extending or replacing the classifier keyword sets")
	fetchCmd.Flags().String("report", "", "write a YAML run report to this file")
	fetchCmd.Flags().String("from", "", "restrict to papers published on or after this date (YYYY/MM/DD)")
	fetchCmd.Flags().String("to", "", "restrict to papers published on or before this date (YYYY/MM/DD)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	log := logging.New(os.Stderr, debug)

	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.Pipeline.MaxResults = n
	}
	if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
		cfg.Pipeline.Workers = n
	}
	if d, _ := cmd.Flags().GetDuration("timeout"); d > 0 {
		cfg.Pipeline.RunTimeout = d
	}
	if kw, _ := cmd.Flags().GetString("keywords"); kw != "" {
		cfg.Classifier.KeywordsFile = kw
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	cfg.PubMed.APIKey = secretDefault("ncbi-api-key", firstNonEmpty(apiKey, cfg.PubMed.APIKey))

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	query, err := buildQuery(args[0], from, to)
	if err != nil {
		return err
	}

	classifier, err := classify.New(cfg.Classifier, log)
	if err != nil {
		return err
	}
	client := pubmed.NewClient(cfg.PubMed, log)
	p := pipeline.New(client, classifier, cfg.Pipeline, log)

	res, err := p.Run(cmd.Context(), query)
	if err != nil {
		return err
	}

	for _, berr := range res.BatchErrors {
		log.Warn().Err(berr).Msg("fetch batch failed")
	}
	if res.Stats.Incomplete {
		log.Warn().Msg("run timed out; results are partial")
	}

	var w io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	format, _ := cmd.Flags().GetString("format")
	if err := output.Write(format, res.Rows, res.Stats, w); err != nil {
		return err
	}

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		rep := pipeline.BuildReport(query, cfg.Pipeline, res, time.Now())
		if err := pipeline.SaveReport(rep, reportPath); err != nil {
			return err
		}
		log.Info().Str("path", reportPath).Msg("run report written")
	}

	return nil
}

// buildQuery appends a publication date range to the query using PubMed's
// term syntax. Dates are YYYY/MM/DD; a bare year or year/month also works
// because the server widens partial dates.
func buildQuery(query, from, to string) (string, error) {
	if from == "" && to == "" {
		return query, nil
	}
	if from == "" {
		from = "1000/01/01"
	}
	if to == "" {
		to = "3000/12/31"
	}
	for _, d := range []string{from, to} {
		if !validDateTerm(d) {
			return "", fmt.Errorf("invalid date %q: want YYYY, YYYY/MM, or YYYY/MM/DD", d)
		}
	}
	return fmt.Sprintf("(%s) AND (%q[Date - Publication] : %q[Date - Publication])", query, from, to), nil
}

func validDateTerm(d string) bool {
	for _, layout := range []string{"2006", "2006/01", "2006/01/02"} {
		if _, err := time.Parse(layout, d); err == nil {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

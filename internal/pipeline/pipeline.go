// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the run: query to identifiers, identifiers to
// raw records in batches, records to classified rows. A run is stateless;
// nothing survives it but the returned rows and statistics.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/anupamaminj/pubmed-fetch-paper/internal/classify"
	"github.com/anupamaminj/pubmed-fetch-paper/internal/pubmed"
	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

const (
	defaultMaxResults = 20
	defaultWorkers    = 3
)

// Client is the retrieval surface the pipeline needs. *pubmed.Client
// implements it; tests substitute a mock.
type Client interface {
	Search(ctx context.Context, query string, max int) ([]string, error)
	Batches(ids []string) [][]string
	FetchBatch(ctx context.Context, ids []string) ([]pubmed.Article, error)
}

// Result is the outcome of one run. Rows are ordered by the identifier's
// first occurrence in the search phase, never by fetch completion order.
type Result struct {
	Rows  []types.OutputRow
	Stats types.RunStats

	// BatchErrors lists fetch batches that failed after retries.
	BatchErrors []error

	// ParseErrors lists fetched records rejected at parse time.
	ParseErrors []error
}

// Pipeline wires the retrieval client and the classifier together.
type Pipeline struct {
	client     Client
	classifier *classify.Classifier
	cfg        types.PipelineConfig
	log        zerolog.Logger
}

// New builds a Pipeline. Zero config fields take defaults at run time.
func New(client Client, classifier *classify.Classifier, cfg types.PipelineConfig, log zerolog.Logger) *Pipeline {
	return &Pipeline{client: client, classifier: classifier, cfg: cfg, log: log}
}

// Run executes the whole flow for one query: search, deduplicate, fetch
// in concurrent batches, parse, classify, filter, and project rows.
//
// Only a rejected query or a failed search phase is fatal. Batch and
// per-record failures are isolated, counted, and reported through the
// Result; the run still returns every row it could produce. When the
// configured run timeout expires, no further batches are issued and the
// partial result is flagged incomplete.
func (p *Pipeline) Run(ctx context.Context, query string) (Result, error) {
	maxResults := p.cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	if p.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.RunTimeout)
		defer cancel()
	}

	ids, err := p.client.Search(ctx, query, maxResults)
	if err != nil {
		return Result{}, fmt.Errorf("search phase: %w", err)
	}

	var res Result
	res.Stats.Searched = len(ids)

	unique := dedupe(ids)
	res.Stats.Duplicates = len(ids) - len(unique)

	byPMID := p.fetchAll(ctx, unique, &res)

	for _, id := range unique {
		rec, ok := byPMID[id]
		if !ok {
			continue
		}
		nonAcademic := rec.NonAcademicAuthors()
		if len(nonAcademic) == 0 {
			res.Stats.Filtered++
			continue
		}
		res.Rows = append(res.Rows, projectRow(rec, nonAcademic))
	}
	res.Stats.Rows = len(res.Rows)

	p.log.Debug().
		Int("searched", res.Stats.Searched).
		Int("fetched", res.Stats.Fetched).
		Int("rows", res.Stats.Rows).
		Int("failed_batches", res.Stats.FailedBatches).
		Bool("incomplete", res.Stats.Incomplete).
		Msg("run complete")

	return res, nil
}

// fetchAll fetches every batch with bounded concurrency, parses and
// classifies the records, and indexes them by PMID. Batch isolation: a
// failing batch contributes an error and nothing else.
func (p *Pipeline) fetchAll(ctx context.Context, ids []string, res *Result) map[string]types.PaperRecord {
	batches := p.client.Batches(ids)
	byPMID := make(map[string]types.PaperRecord, len(ids))
	if len(batches) == 0 {
		return byPMID
	}

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(batches) {
		workers = len(batches)
	}

	type batchOutcome struct {
		articles []pubmed.Article
		err      error
	}

	jobs := make(chan []string)
	outcomes := make(chan batchOutcome, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				articles, err := p.client.FetchBatch(ctx, batch)
				outcomes <- batchOutcome{articles: articles, err: err}
			}
		}()
	}

	// Stop issuing batches once the run deadline passes; whatever is
	// already in flight still lands in outcomes.
dispatch:
	for _, batch := range batches {
		select {
		case <-ctx.Done():
			res.Stats.Incomplete = true
			break dispatch
		case jobs <- batch:
		}
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	for outcome := range outcomes {
		if outcome.err != nil {
			res.Stats.FailedBatches++
			res.BatchErrors = append(res.BatchErrors, outcome.err)
			p.log.Debug().Err(outcome.err).Msg("batch failed")
			continue
		}
		res.Stats.Fetched += len(outcome.articles)

		records, failures := pubmed.ParseSet(outcome.articles)
		res.Stats.ParseFailures += len(failures)
		res.ParseErrors = append(res.ParseErrors, failures...)

		for _, rec := range records {
			p.classifier.Annotate(&rec)
			// First fetch wins; dedup upstream makes repeats unlikely.
			if _, seen := byPMID[rec.PMID]; !seen {
				byPMID[rec.PMID] = rec
			}
		}
	}
	res.Stats.Parsed = len(byPMID)
	return byPMID
}

// dedupe removes repeated identifiers, keeping first-occurrence order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var unique []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	return unique
}

// projectRow turns a classified record into its output row. The date
// renders as an ISO calendar date, empty when the record has none.
func projectRow(rec types.PaperRecord, nonAcademic []types.Author) types.OutputRow {
	row := types.OutputRow{
		PMID:  rec.PMID,
		Title: rec.Title,
		Email: rec.CorrespondingEmail,
	}
	if !rec.Date.IsZero() {
		row.Date = rec.Date.Format("2006-01-02")
	}
	for _, a := range nonAcademic {
		row.Authors = append(row.Authors, a.Name)
		row.Organizations = append(row.Organizations, a.Organization)
	}
	return row
}

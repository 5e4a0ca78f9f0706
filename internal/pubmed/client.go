// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/anupamaminj/pubmed-fetch-paper/internal/httputil"
	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

const (
	// DefaultBaseURL is the production E-utilities endpoint.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	esearchPath = "/esearch.fcgi"
	efetchPath  = "/efetch.fcgi"

	defaultPageSize  = 100
	defaultBatchSize = 200

	// The NCBI usage policy allows 3 requests per second without an API
	// key and 10 with one.
	defaultRateLimit = 3.0
	keyedRateLimit   = 10.0
)

// QueryError reports a query the server rejected or that is unusable
// before any request is made. It is fatal to the run.
type QueryError struct {
	Query  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q rejected: %s", e.Query, e.Reason)
}

// BatchError reports a fetch batch that failed after retries. The
// orchestrator records it and continues with the remaining batches.
type BatchError struct {
	IDs []string
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("fetching batch of %d records: %v", len(e.IDs), e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Client talks to the E-utilities search and fetch endpoints. All
// configuration is passed in at construction; a shared token-bucket
// limiter keeps the request rate inside the usage policy across
// concurrent callers.
type Client struct {
	cfg     types.PubMedConfig
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient builds a Client, applying defaults for unset fields. The
// default rate limit depends on whether an API key is configured.
func NewClient(cfg types.PubMedConfig, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
		if cfg.APIKey != "" {
			cfg.RateLimit = keyedRateLimit
		}
	}
	burst := int(cfg.RateLimit)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		log:     log,
	}
}

// BatchSize returns the configured efetch batch bound.
func (c *Client) BatchSize() int { return c.cfg.BatchSize }

// RateLimit returns the effective request rate in requests per second
// after defaults were applied.
func (c *Client) RateLimit() float64 { return c.cfg.RateLimit }

// Search pages through esearch until max identifiers are collected or the
// declared total is exhausted, whichever comes first. The returned slice
// preserves the server's relevance order and may contain duplicates; the
// caller deduplicates.
func (c *Client) Search(ctx context.Context, query string, max int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &QueryError{Query: query, Reason: "empty query"}
	}
	if max <= 0 {
		max = defaultPageSize
	}

	var ids []string
	for retstart := 0; len(ids) < max; {
		pageSize := c.cfg.PageSize
		if remaining := max - len(ids); remaining < pageSize {
			pageSize = remaining
		}

		page, total, err := c.searchPage(ctx, query, retstart, pageSize)
		if err != nil {
			return nil, err
		}

		c.log.Debug().
			Str("query", query).
			Int("retstart", retstart).
			Int("page", len(page)).
			Int("total", total).
			Msg("esearch page")

		ids = append(ids, page...)
		retstart += len(page)
		if len(page) == 0 || retstart >= total {
			break
		}
	}
	return ids, nil
}

// searchPage issues one esearch request and returns the page of PMIDs and
// the declared total result count.
func (c *Client) searchPage(ctx context.Context, query string, retstart, retmax int) ([]string, int, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmode": {"json"},
		"retmax":  {strconv.Itoa(retmax)},
	}
	if retstart > 0 {
		params.Set("retstart", strconv.Itoa(retstart))
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	resp, err := c.get(ctx, esearchPath, params)
	if err != nil {
		return nil, 0, fmt.Errorf("esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, 0, &QueryError{Query: query, Reason: fmt.Sprintf("server returned HTTP %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("esearch returned HTTP %d", resp.StatusCode)
	}

	var envelope esearchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, 0, fmt.Errorf("parsing esearch response: %w", err)
	}

	// Phrases the server could not resolve yield zero results, not an error.
	if el := envelope.Result.ErrorList; el != nil && len(el.PhrasesNotFound) > 0 {
		c.log.Debug().Strs("phrases", el.PhrasesNotFound).Msg("esearch phrases not found")
	}

	total, err := strconv.Atoi(envelope.Result.Count)
	if err != nil {
		total = len(envelope.Result.IDList)
	}
	return envelope.Result.IDList, total, nil
}

// Batches splits identifiers into groups bounded by the efetch batch size.
// Order is preserved within and across batches.
func (c *Client) Batches(ids []string) [][]string {
	var batches [][]string
	for len(ids) > 0 {
		n := c.cfg.BatchSize
		if len(ids) < n {
			n = len(ids)
		}
		batches = append(batches, ids[:n])
		ids = ids[n:]
	}
	return batches
}

// FetchBatch issues one efetch request for the batch and returns the raw
// article records. Returned order need not match the input order; callers
// rejoin records to identifiers by PMID. Failures after retries come back
// as a *BatchError.
func (c *Client) FetchBatch(ctx context.Context, ids []string) ([]Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > c.cfg.BatchSize {
		return nil, &BatchError{IDs: ids, Err: fmt.Errorf("batch of %d exceeds limit %d", len(ids), c.cfg.BatchSize)}
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	resp, err := c.get(ctx, efetchPath, params)
	if err != nil {
		return nil, &BatchError{IDs: ids, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &BatchError{IDs: ids, Err: fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)}
	}

	var set ArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, &BatchError{IDs: ids, Err: fmt.Errorf("parsing efetch response: %w", err)}
	}

	c.log.Debug().Int("requested", len(ids)).Int("returned", len(set.Articles)).Msg("efetch batch")
	return set.Articles, nil
}

// get issues a GET with retry on transient failures. The limiter gates
// every attempt, retries included, so the request rate holds under
// sustained 429s.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	return httputil.DoWithRetry(ctx, c.http, c.limiter, req, c.cfg.MaxRetries)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the domain and configuration types shared across
// the pipeline stages.
package types

import "time"

// Author is one entry in a paper's author list, in source order.
type Author struct {
	// Name is the author's display name ("ForeName LastName" or a
	// collective name).
	Name string `json:"name" yaml:"name"`

	// Affiliation is the raw affiliation string from the record; empty
	// when the record carries none.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// NonAcademic reports whether the classifier judged the affiliation
	// to be industry rather than academic/medical.
	NonAcademic bool `json:"non_academic" yaml:"non_academic"`

	// Organization is the normalized organization name extracted from the
	// affiliation; empty when the affiliation is absent or unparseable.
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`

	// EmailDomain is the domain of the first email embedded in the
	// affiliation string, if any.
	EmailDomain string `json:"email_domain,omitempty" yaml:"email_domain,omitempty"`
}

// PaperRecord is one parsed PubMed article.
type PaperRecord struct {
	// PMID is the PubMed identifier. Always present; records without one
	// are rejected at parse time.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title; empty when the record carries none.
	Title string `json:"title" yaml:"title"`

	// Date is the publication date normalized to a calendar day. Missing
	// month and day components default to January and the 1st.
	Date time.Time `json:"date" yaml:"date"`

	// Authors lists the article's authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// CorrespondingEmail is the first email address found in any author
	// affiliation, if any.
	CorrespondingEmail string `json:"corresponding_email,omitempty" yaml:"corresponding_email,omitempty"`
}

// NonAcademicAuthors returns the authors classified as non-academic,
// preserving source order.
func (p PaperRecord) NonAcademicAuthors() []Author {
	var out []Author
	for _, a := range p.Authors {
		if a.NonAcademic {
			out = append(out, a)
		}
	}
	return out
}

// OutputRow is one row of the final tabular result. Each row traces to
// exactly one PaperRecord with at least one non-academic author.
type OutputRow struct {
	// PMID is the source record's PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Date is the publication date in ISO format (YYYY-MM-DD).
	Date string `json:"date" yaml:"date"`

	// Authors lists the non-academic authors' names, source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Organizations lists the authors' organizations, same order as Authors.
	Organizations []string `json:"organizations" yaml:"organizations"`

	// Email is the corresponding-author email, or empty.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// RunStats summarizes a pipeline run for the CLI layer.
type RunStats struct {
	// Searched is the number of identifiers returned by the search phase,
	// duplicates included.
	Searched int `json:"searched" yaml:"searched"`

	// Duplicates is the number of identifiers removed before fetching.
	Duplicates int `json:"duplicates" yaml:"duplicates"`

	// Fetched is the number of raw records successfully fetched.
	Fetched int `json:"fetched" yaml:"fetched"`

	// FailedBatches is the number of fetch batches that failed after retries.
	FailedBatches int `json:"failed_batches" yaml:"failed_batches"`

	// Parsed is the number of records parsed successfully.
	Parsed int `json:"parsed" yaml:"parsed"`

	// ParseFailures is the number of records rejected at parse time.
	ParseFailures int `json:"parse_failures" yaml:"parse_failures"`

	// Filtered is the number of parsed records dropped for having no
	// non-academic author.
	Filtered int `json:"filtered" yaml:"filtered"`

	// Rows is the number of output rows produced.
	Rows int `json:"rows" yaml:"rows"`

	// Incomplete is set when the run timeout stopped fetching before all
	// batches were issued.
	Incomplete bool `json:"incomplete" yaml:"incomplete"`
}

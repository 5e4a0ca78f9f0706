// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders pipeline rows in the supported formats: CSV for
// downstream tooling, a table for terminals, and JSON for scripting.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

// Format names accepted by the CLI.
const (
	FormatNameCSV   = "csv"
	FormatNameTable = "table"
	FormatNameJSON  = "json"
)

// csvHeader is the stable column set; consumers key on these names.
var csvHeader = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

// Write renders rows to w in the named format.
func Write(format string, rows []types.OutputRow, stats types.RunStats, w io.Writer) error {
	switch format {
	case FormatNameCSV, "":
		return WriteCSV(rows, w)
	case FormatNameTable:
		WriteTable(rows, stats, w)
		return nil
	case FormatNameJSON:
		return WriteJSON(rows, w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteCSV writes rows as CSV with the stable header. Multi-valued
// columns join their entries with "; ".
func WriteCSV(rows []types.OutputRow, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.PMID,
			row.Title,
			row.Date,
			strings.Join(row.Authors, "; "),
			strings.Join(row.Organizations, "; "),
			row.Email,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %s: %w", row.PMID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes rows as a human-readable table to w.
func WriteTable(rows []types.OutputRow, stats types.RunStats, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No papers with industry-affiliated authors found.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-50s  %-10s  %-24s  %s\n",
		"PMID", "Title", "Date", "Authors", "Affiliation")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, row := range rows {
		title := truncate(row.Title, 50)
		authors := formatAuthors(row.Authors)
		org := ""
		if len(row.Organizations) > 0 {
			org = truncate(row.Organizations[0], 40)
		}
		fmt.Fprintf(w, "%-10s  %-50s  %-10s  %-24s  %s\n",
			row.PMID, title, row.Date, authors, org)
	}

	fmt.Fprintf(w, "\n%d papers", len(rows))
	if stats.Filtered > 0 {
		fmt.Fprintf(w, " (%d academic-only papers filtered)", stats.Filtered)
	}
	if stats.FailedBatches > 0 {
		fmt.Fprintf(w, " (%d fetch batches failed)", stats.FailedBatches)
	}
	if stats.Incomplete {
		fmt.Fprint(w, " (run incomplete)")
	}
	fmt.Fprintln(w)
}

// WriteJSON writes rows as indented JSON to w.
func WriteJSON(rows []types.OutputRow, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 24)
	default:
		return truncate(authors[0], 16) + " et al."
	}
}

// truncate shortens s to max runes; byte slicing would split multi-byte
// characters in non-ASCII titles.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

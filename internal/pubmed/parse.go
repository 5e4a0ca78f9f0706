// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

// ParseError reports a fetched record that could not be turned into a
// PaperRecord. Only a missing identifier causes one; every other field
// defaults. The orchestrator counts these and continues.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parsing record: " + e.Reason
}

// ParseArticle turns one raw article into a typed PaperRecord. It
// tolerates a missing title (empty string), a partial date (month and day
// default to January and the 1st), authors without affiliations, and
// authors referencing a shared affiliation block by index. It fails only
// when the PMID itself is missing.
func ParseArticle(a Article) (types.PaperRecord, error) {
	pmid := strings.TrimSpace(a.Citation.PMID.Value)
	if pmid == "" {
		return types.PaperRecord{}, &ParseError{Reason: "missing PMID"}
	}

	rec := types.PaperRecord{
		PMID:  pmid,
		Title: strings.TrimSpace(a.Citation.Article.Title),
		Date:  articleDate(a.Citation.Article),
	}

	if list := a.Citation.Article.AuthorList; list != nil {
		for _, au := range list.Authors {
			name := authorName(au)
			if name == "" {
				continue
			}
			rec.Authors = append(rec.Authors, types.Author{
				Name:        name,
				Affiliation: authorAffiliation(au, a.Citation.Article.AffiliationList),
			})
		}
	}

	return rec, nil
}

// ParseSet parses every article in the set, collecting records and parse
// failures separately. Input order is preserved for the successes.
func ParseSet(set []Article) (records []types.PaperRecord, failures []error) {
	for i, a := range set {
		rec, err := ParseArticle(a)
		if err != nil {
			failures = append(failures, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		records = append(records, rec)
	}
	return records, failures
}

// authorName builds the display name: the collective name when present,
// otherwise "ForeName LastName" with whichever parts exist. Entries the
// source marks invalid are skipped.
func authorName(au Author) string {
	if au.ValidYN == "N" {
		return ""
	}
	if au.CollectiveName != "" {
		return strings.TrimSpace(au.CollectiveName)
	}
	parts := make([]string, 0, 2)
	if au.ForeName != "" {
		parts = append(parts, au.ForeName)
	} else if au.Initials != "" {
		parts = append(parts, au.Initials)
	}
	if au.LastName != "" {
		parts = append(parts, au.LastName)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// authorAffiliation returns the author's first inline affiliation, or
// resolves a shared-block reference (1-based index). An unresolvable
// reference yields an absent affiliation.
func authorAffiliation(au Author, shared []AffiliationInfo) string {
	for _, info := range au.AffiliationInfo {
		if s := strings.TrimSpace(info.Affiliation); s != "" {
			return s
		}
	}
	if au.AffiliationRef != "" {
		idx, err := strconv.Atoi(strings.TrimSpace(au.AffiliationRef))
		if err == nil && idx >= 1 && idx <= len(shared) {
			return strings.TrimSpace(shared[idx-1].Affiliation)
		}
	}
	return ""
}

// articleDate normalizes the publication date to a calendar day. The
// electronic ArticleDate wins over the print PubDate; missing month and
// day components default to January and the 1st. A record with no usable
// year yields the zero time.
func articleDate(a ArticleContent) time.Time {
	for _, ad := range a.ArticleDate {
		if t, ok := buildDate(ad.Year, ad.Month, ad.Day); ok {
			return t
		}
	}

	pd := a.Journal.Issue.PubDate
	if t, ok := buildDate(pd.Year, pd.Month, pd.Day); ok {
		return t
	}
	if pd.MedlineDate != "" {
		if year := medlineYear(pd.MedlineDate); year > 0 {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

// buildDate assembles a UTC date from string components. Month accepts a
// number or an English name; missing month or day defaults to 01.
func buildDate(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y <= 0 {
		return time.Time{}, false
	}
	d := 1
	if day != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(day)); err == nil && parsed >= 1 && parsed <= 31 {
			d = parsed
		}
	}
	return time.Date(y, parseMonth(month), d, 0, 0, 0, 0, time.UTC), true
}

// months maps lowercased English month names and abbreviations.
var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// parseMonth interprets a numeric or named month; anything else defaults
// to January.
func parseMonth(month string) time.Month {
	month = strings.TrimSpace(month)
	if month == "" {
		return time.January
	}
	if m, err := strconv.Atoi(month); err == nil && m >= 1 && m <= 12 {
		return time.Month(m)
	}
	if m, ok := months[strings.ToLower(month)]; ok {
		return m
	}
	return time.January
}

// medlineYear pulls the leading year out of an irregular MedlineDate
// ("2020 Jan-Feb", "2019-2020 Winter").
func medlineYear(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	yearStr := strings.SplitN(fields[0], "-", 2)[0]
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0
	}
	return year
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether an author affiliation string belongs to
// a non-academic organization (industry, pharma, biotech) rather than a
// university, hospital, or public research body.
//
// The decision is a deterministic two-sided keyword rule over the first
// semicolon-separated segment of the affiliation. Academic keywords mark
// the segment academic unless an overriding industry keyword or corporate
// suffix is also present. A segment matching neither set defaults to
// academic; industry membership is never assumed from the absence of an
// academic signal alone.
package classify

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

// emailPattern matches the first email address embedded in an affiliation
// string ("Electronic address: jane@acme.com." and similar).
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// countries recognized as trailing location fragments when extracting the
// organization name. Lowercase.
var countries = map[string]bool{
	"usa": true, "united states": true, "united states of america": true,
	"uk": true, "united kingdom": true, "england": true, "scotland": true,
	"germany": true, "france": true, "italy": true, "spain": true,
	"switzerland": true, "netherlands": true, "the netherlands": true,
	"belgium": true, "sweden": true, "denmark": true, "norway": true,
	"china": true, "japan": true, "south korea": true, "korea": true,
	"india": true, "australia": true, "canada": true, "brazil": true,
	"israel": true, "ireland": true, "austria": true, "finland": true,
}

// Classification is the result of classifying one affiliation string.
type Classification struct {
	// NonAcademic reports an industry affiliation.
	NonAcademic bool

	// Organization is the normalized organization name, or empty when the
	// affiliation is absent or unparseable.
	Organization string

	// Email is the first email address embedded in the affiliation, if any.
	Email string

	// EmailDomain is the part of Email after the "@".
	EmailDomain string

	// Unclassified reports that no keyword from either set matched, so
	// the conservative academic default applied.
	Unclassified bool
}

// Classifier applies the keyword rule. Safe for concurrent use; the
// keyword sets are fixed at construction.
type Classifier struct {
	kw  Keywords
	log zerolog.Logger
}

// New builds a Classifier. When cfg names a keywords file it is loaded and
// merged with the built-in sets.
func New(cfg types.ClassifierConfig, log zerolog.Logger) (*Classifier, error) {
	kw := DefaultKeywords()
	if cfg.KeywordsFile != "" {
		loaded, err := LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		kw = loaded
	}
	return &Classifier{kw: kw, log: log}, nil
}

// Classify decides whether the affiliation is non-academic and extracts
// the normalized organization name and email domain. An empty affiliation
// yields the zero Classification.
//
// Multi-institution affiliations (semicolon-joined) are classified from
// the first segment only; the trailing segments are ignored for
// determinism.
func (c *Classifier) Classify(affiliation string) Classification {
	affiliation = strings.TrimSpace(affiliation)
	if affiliation == "" {
		return Classification{}
	}

	var cl Classification
	if email := emailPattern.FindString(affiliation); email != "" {
		cl.Email = email
		if at := strings.LastIndex(email, "@"); at >= 0 {
			cl.EmailDomain = email[at+1:]
		}
	}

	segment := firstSegment(affiliation)
	lower := strings.ToLower(segment)

	academic := containsAny(lower, c.kw.Academic)
	industry := containsAny(lower, c.kw.Industry) || hasSuffixToken(lower, c.kw.Suffixes)
	weakIndustry := containsAny(lower, c.kw.WeakIndustry)

	switch {
	case industry:
		cl.NonAcademic = true
	case academic:
		cl.NonAcademic = false
	case weakIndustry:
		cl.NonAcademic = true
	default:
		cl.NonAcademic = false
		cl.Unclassified = true
		c.log.Debug().Str("affiliation", segment).Msg("affiliation unclassified, defaulting to academic")
	}

	cl.Organization = organization(segment)
	return cl
}

// Annotate classifies every author of the record in place and fills the
// record's corresponding email from the first author affiliation that
// embeds one. Author order is preserved.
func (c *Classifier) Annotate(rec *types.PaperRecord) {
	for i := range rec.Authors {
		cl := c.Classify(rec.Authors[i].Affiliation)
		rec.Authors[i].NonAcademic = cl.NonAcademic
		rec.Authors[i].Organization = cl.Organization
		rec.Authors[i].EmailDomain = cl.EmailDomain
		if rec.CorrespondingEmail == "" && cl.Email != "" {
			rec.CorrespondingEmail = cl.Email
		}
	}
}

// firstSegment returns the affiliation up to the first semicolon.
func firstSegment(s string) string {
	if i := strings.Index(s, ";"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// containsAny reports whether any keyword occurs as a substring of the
// lowercased segment.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// hasSuffixToken reports whether any word of the segment equals a
// corporate suffix token. A suffix ending in a period ("co.") must keep
// its period in the text; other suffixes match with or without one.
func hasSuffixToken(lower string, suffixes []string) bool {
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ",;:()[]")
		for _, suf := range suffixes {
			if strings.HasSuffix(suf, ".") {
				if word == suf {
					return true
				}
			} else if strings.TrimRight(word, ".") == suf {
				return true
			}
		}
	}
	return false
}

// organization extracts the normalized organization name: the
// comma-separated parts of the segment preceding the first country, email,
// or postal fragment. The first part is always kept so an organization
// containing digits ("3M") is not lost. Trailing periods are trimmed.
func organization(segment string) string {
	parts := strings.Split(segment, ",")
	var kept []string
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i > 0 && isLocationFragment(part) {
			break
		}
		kept = append(kept, part)
	}
	org := strings.TrimSpace(strings.Join(kept, ", "))
	org = strings.TrimRight(org, ".")
	return org
}

// isLocationFragment reports whether the comma part looks like a country,
// an embedded email, a postal fragment (any digit), or a bare two-letter
// state abbreviation.
func isLocationFragment(part string) bool {
	if strings.Contains(part, "@") {
		return true
	}
	lower := strings.ToLower(strings.TrimRight(part, "."))
	if countries[lower] {
		return true
	}
	if len(part) == 2 && part == strings.ToUpper(part) {
		return true
	}
	return strings.ContainsAny(part, "0123456789")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// defaultAcademicKeywords mark an affiliation as academic or medical when
// they appear anywhere in the segment (case-insensitive substring).
var defaultAcademicKeywords = []string{
	"university",
	"college",
	"institute",
	"school",
	"hospital",
	"center",
	"centre",
	"faculty",
	"department of",
	"national laboratory",
	"national lab",
	"academy",
	"clinic",
}

// defaultIndustryKeywords override an academic signal when present
// (case-insensitive substring). Includes the domain terms commonly found
// in pharma and biotech affiliations.
var defaultIndustryKeywords = []string{
	"pharma",
	"biotech",
	"therapeutics",
	"genomics",
	"diagnostics",
	"life sciences",
	"biosciences",
}

// defaultCorporateSuffixes are legal-entity tokens matched whole against
// the words of the segment. A substring match would be wrong here ("inc"
// is inside "Princeton"). An entry ending in a period requires the period
// in the text: bare "co" would collide with the CO state abbreviation.
var defaultCorporateSuffixes = []string{
	"inc",
	"ltd",
	"llc",
	"corp",
	"gmbh",
	"co.",
	"plc",
}

// defaultWeakIndustryKeywords suggest industry only when no academic
// signal is present in the segment. "Laboratories" appears in both
// corporate names and research-institute names, so it never overrides.
var defaultWeakIndustryKeywords = []string{
	"laboratories",
	"labs",
}

// Keywords holds the keyword sets driving classification. All entries are
// matched case-insensitively.
type Keywords struct {
	// Academic keywords mark a segment academic (substring match).
	Academic []string `yaml:"academic"`

	// Industry keywords mark a segment non-academic and override an
	// academic signal (substring match).
	Industry []string `yaml:"industry"`

	// Suffixes are corporate legal-entity tokens (whole-word match) that
	// also override an academic signal.
	Suffixes []string `yaml:"suffixes"`

	// WeakIndustry keywords mark a segment non-academic only when no
	// academic signal is present (substring match).
	WeakIndustry []string `yaml:"weak_industry"`

	// Extend, when set in an override file, appends the file's lists to
	// the built-in sets instead of replacing them.
	Extend bool `yaml:"extend"`
}

// DefaultKeywords returns the built-in keyword sets.
func DefaultKeywords() Keywords {
	return Keywords{
		Academic:     defaultAcademicKeywords,
		Industry:     defaultIndustryKeywords,
		Suffixes:     defaultCorporateSuffixes,
		WeakIndustry: defaultWeakIndustryKeywords,
	}
}

// LoadKeywords reads a YAML override file and merges it with the built-in
// sets. A list in the file replaces the corresponding built-in list unless
// the file sets extend: true, in which case it is appended. Empty lists
// leave the built-ins untouched either way.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("reading keywords file: %w", err)
	}

	var file Keywords
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Keywords{}, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}

	kw := DefaultKeywords()
	kw.Academic = mergeList(kw.Academic, file.Academic, file.Extend)
	kw.Industry = mergeList(kw.Industry, file.Industry, file.Extend)
	kw.Suffixes = mergeList(kw.Suffixes, file.Suffixes, file.Extend)
	kw.WeakIndustry = mergeList(kw.WeakIndustry, file.WeakIndustry, file.Extend)
	return kw, nil
}

// mergeList lowercases the override entries and either appends them to or
// substitutes them for the built-in list.
func mergeList(builtin, override []string, extend bool) []string {
	if len(override) == 0 {
		return builtin
	}
	lowered := make([]string, 0, len(override))
	for _, s := range override {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			lowered = append(lowered, s)
		}
	}
	if extend {
		return append(append([]string{}, builtin...), lowered...)
	}
	return lowered
}

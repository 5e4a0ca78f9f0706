// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anupamaminj/pubmed-fetch-paper/pkg/types"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(types.ClassifierConfig{}, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestClassifyIndustry(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name        string
		affiliation string
	}{
		{"corporate suffix", "Acme Biotech Inc., Cambridge, MA, USA"},
		{"pharma keyword", "Vertex Pharma, Boston, USA"},
		{"therapeutics keyword", "Beam Therapeutics, Cambridge, USA"},
		{"gmbh suffix", "CureVac GmbH, Tübingen, Germany"},
		{"ltd suffix", "AstraZeneca Ltd, Cambridge, UK"},
		{"co. with period", "Eli Lilly and Co., Indianapolis, IN 46285, USA"},
		{"genomics keyword", "Illumina Genomics, San Diego, CA, USA"},
		{"life sciences keyword", "Agilent Life Sciences, Santa Clara, USA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := c.Classify(tt.affiliation)
			assert.True(t, cl.NonAcademic, "affiliation %q should be non-academic", tt.affiliation)
			assert.False(t, cl.Unclassified)
		})
	}
}

func TestClassifyAcademic(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name        string
		affiliation string
	}{
		{"university", "Stanford University, Stanford, CA 94305, USA"},
		{"hospital", "Massachusetts General Hospital, Boston, MA, USA"},
		{"department phrasing", "Department of Oncology, Karolinska Institutet, Stockholm, Sweden"},
		{"institute", "Broad Institute, Cambridge, MA, USA"},
		{"national laboratory", "Oak Ridge National Laboratory, Oak Ridge, TN, USA"},
		{"centre spelling", "Wellcome Centre for Human Genetics, Oxford, UK"},
		{"college", "Imperial College London, London, UK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := c.Classify(tt.affiliation)
			assert.False(t, cl.NonAcademic, "affiliation %q should be academic", tt.affiliation)
			assert.False(t, cl.Unclassified)
		})
	}
}

func TestClassifyIndustryOverridesAcademic(t *testing.T) {
	c := newTestClassifier(t)

	// "Institute" alone is academic, but the corporate suffix wins.
	cl := c.Classify("Novartis Institutes for BioMedical Research Inc., Basel, Switzerland")
	assert.True(t, cl.NonAcademic)
}

func TestClassifyWeakIndustryDoesNotOverride(t *testing.T) {
	c := newTestClassifier(t)

	// "Laboratories" next to research-institute phrasing stays academic.
	cl := c.Classify("Cold Spring Harbor Laboratories, Research Institute, NY, USA")
	assert.False(t, cl.NonAcademic)

	// On its own, "Laboratories" suggests industry.
	cl = c.Classify("Abbott Laboratories, Abbott Park, IL, USA")
	assert.True(t, cl.NonAcademic)
}

func TestClassifyUnclassifiedDefaultsAcademic(t *testing.T) {
	c := newTestClassifier(t)

	cl := c.Classify("Some Obscure Organization, Nowhere")
	assert.False(t, cl.NonAcademic)
	assert.True(t, cl.Unclassified)
}

func TestClassifyEmptyAffiliation(t *testing.T) {
	c := newTestClassifier(t)

	for _, affiliation := range []string{"", "   "} {
		cl := c.Classify(affiliation)
		assert.False(t, cl.NonAcademic)
		assert.Empty(t, cl.Organization)
		assert.Empty(t, cl.Email)
		assert.Empty(t, cl.EmailDomain)
		assert.False(t, cl.Unclassified)
	}
}

func TestClassifyFirstSegmentOnly(t *testing.T) {
	c := newTestClassifier(t)

	// The academic first segment decides; the industry segment after the
	// semicolon is ignored.
	cl := c.Classify("Harvard University, Boston, MA, USA; Moderna Inc., Cambridge, MA, USA")
	assert.False(t, cl.NonAcademic)

	cl = c.Classify("Moderna Inc., Cambridge, MA, USA; Harvard University, Boston, MA, USA")
	assert.True(t, cl.NonAcademic)
	assert.Equal(t, "Moderna Inc", cl.Organization)
}

func TestClassifyEmailExtraction(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name        string
		affiliation string
		email       string
		domain      string
	}{
		{
			name:        "trailing address",
			affiliation: "Moderna Inc., Cambridge, MA, USA. Electronic address: research@moderna.com.",
			email:       "research@moderna.com",
			domain:      "moderna.com",
		},
		{
			name:        "comma separated",
			affiliation: "Moderna Inc., research@moderna.com",
			email:       "research@moderna.com",
			domain:      "moderna.com",
		},
		{
			name:        "first of several",
			affiliation: "Acme Pharma Ltd (a@acme.com, b@acme.com)",
			email:       "a@acme.com",
			domain:      "acme.com",
		},
		{
			name:        "no email",
			affiliation: "Acme Pharma Ltd, London, UK",
			email:       "",
			domain:      "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := c.Classify(tt.affiliation)
			assert.Equal(t, tt.email, cl.Email)
			assert.Equal(t, tt.domain, cl.EmailDomain)
		})
	}
}

func TestOrganizationExtraction(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name        string
		affiliation string
		want        string
	}{
		{"stops at state", "Moderna Inc., Cambridge, MA, USA", "Moderna Inc., Cambridge"},
		{"stops at email", "Moderna Inc., research@moderna.com", "Moderna Inc"},
		{"stops at postal code", "Genentech Inc., South San Francisco 94080, USA", "Genentech Inc"},
		{"keeps digit-bearing first part", "23andMe Inc., Sunnyvale, CA, USA", "23andMe Inc., Sunnyvale"},
		{"single token", "Pfizer", "Pfizer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.affiliation).Organization)
		})
	}
}

func TestAnnotate(t *testing.T) {
	c := newTestClassifier(t)

	rec := types.PaperRecord{
		PMID: "12345",
		Authors: []types.Author{
			{Name: "Alice Adams", Affiliation: "Stanford University, Stanford, CA, USA"},
			{Name: "Bob Brown", Affiliation: "Moderna Inc., Cambridge, MA, USA. research@moderna.com"},
			{Name: "Carol Clark"},
		},
	}

	c.Annotate(&rec)

	assert.False(t, rec.Authors[0].NonAcademic)
	assert.True(t, rec.Authors[1].NonAcademic)
	assert.Equal(t, "moderna.com", rec.Authors[1].EmailDomain)
	assert.False(t, rec.Authors[2].NonAcademic)
	assert.Empty(t, rec.Authors[2].Organization)
	assert.Equal(t, "research@moderna.com", rec.CorrespondingEmail)

	nonAcademic := rec.NonAcademicAuthors()
	require.Len(t, nonAcademic, 1)
	assert.Equal(t, "Bob Brown", nonAcademic[0].Name)
}

func TestLoadKeywordsReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	data := "industry:\n  - nanotech\nacademic:\n  - observatory\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	kw, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"nanotech"}, kw.Industry)
	assert.Equal(t, []string{"observatory"}, kw.Academic)
	// Untouched lists keep the built-ins.
	assert.Equal(t, DefaultKeywords().Suffixes, kw.Suffixes)
}

func TestLoadKeywordsExtend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	data := "extend: true\nindustry:\n  - Nanotech\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	kw, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Contains(t, kw.Industry, "pharma")
	assert.Contains(t, kw.Industry, "nanotech")
}

func TestLoadKeywordsMissingFile(t *testing.T) {
	_, err := LoadKeywords(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewWithKeywordsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	data := "extend: true\nindustry:\n  - nanotech\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := New(types.ClassifierConfig{KeywordsFile: path}, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, c.Classify("Zettafleet Nanotech, Lisbon, Portugal").NonAcademic)
}

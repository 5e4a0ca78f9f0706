// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed talks to the NCBI E-utilities API: esearch for paging
// through matching PMIDs and efetch for retrieving article records in
// batches. It also parses fetched records into typed PaperRecords.
//
// The E-utilities documentation lives at
// https://www.ncbi.nlm.nih.gov/books/NBK25499/.
package pubmed

import "encoding/xml"

// esearchEnvelope is the retmode=json response from esearch.fcgi.
type esearchEnvelope struct {
	Result esearchResult `json:"esearchresult"`
}

// esearchResult carries one page of matching PMIDs. Numeric fields are
// strings in the JSON envelope.
type esearchResult struct {
	Count    string   `json:"count"`
	RetMax   string   `json:"retmax"`
	RetStart string   `json:"retstart"`
	IDList   []string `json:"idlist"`
	// ErrorList is present when the query used unknown phrases or fields.
	ErrorList *esearchErrorList `json:"errorlist,omitempty"`
}

// esearchErrorList describes query terms the server could not resolve.
type esearchErrorList struct {
	PhrasesNotFound []string `json:"phrasesnotfound,omitempty"`
	FieldsNotFound  []string `json:"fieldsnotfound,omitempty"`
}

// ArticleSet is the retmode=xml response from efetch.fcgi: one
// PubmedArticle per requested PMID, in server order.
type ArticleSet struct {
	XMLName  xml.Name  `xml:"PubmedArticleSet"`
	Articles []Article `xml:"PubmedArticle"`
}

// Article is one raw article record as fetched. It is transient: the
// parser turns it into a types.PaperRecord.
type Article struct {
	Citation MedlineCitation `xml:"MedlineCitation"`
}

// MedlineCitation holds the core bibliographic fields.
type MedlineCitation struct {
	PMID    PMID           `xml:"PMID"`
	Article ArticleContent `xml:"Article"`
}

// PMID is the PubMed identifier with an optional version attribute.
type PMID struct {
	Version string `xml:"Version,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// ArticleContent holds the article metadata the pipeline consumes.
type ArticleContent struct {
	Journal     Journal       `xml:"Journal"`
	Title       string        `xml:"ArticleTitle"`
	AuthorList  *AuthorList   `xml:"AuthorList,omitempty"`
	ArticleDate []ArticleDate `xml:"ArticleDate,omitempty"`
	// AffiliationList is the shared affiliation block some bulk exports
	// carry; authors reference entries by 1-based index instead of
	// inlining them.
	AffiliationList []AffiliationInfo `xml:"AffiliationList>AffiliationInfo,omitempty"`
}

// Journal carries the issue whose PubDate dates the article when no
// ArticleDate is present.
type Journal struct {
	Title string       `xml:"Title,omitempty"`
	Issue JournalIssue `xml:"JournalIssue"`
}

// JournalIssue holds the print publication date.
type JournalIssue struct {
	PubDate PubDate `xml:"PubDate"`
}

// PubDate is the print date. Month may be numeric or a name; irregular
// dates arrive as a single MedlineDate string ("2020 Jan-Feb").
type PubDate struct {
	Year        string `xml:"Year,omitempty"`
	Month       string `xml:"Month,omitempty"`
	Day         string `xml:"Day,omitempty"`
	MedlineDate string `xml:"MedlineDate,omitempty"`
}

// ArticleDate is the electronic publication date, preferred over the
// print date when present.
type ArticleDate struct {
	DateType string `xml:"DateType,attr,omitempty"`
	Year     string `xml:"Year"`
	Month    string `xml:"Month,omitempty"`
	Day      string `xml:"Day,omitempty"`
}

// AuthorList holds the ordered author entries.
type AuthorList struct {
	Authors []Author `xml:"Author"`
}

// Author is one author entry. Affiliations are usually inlined in
// AffiliationInfo; AffiliationRef instead points into the article's
// shared AffiliationList by 1-based index.
type Author struct {
	ValidYN         string            `xml:"ValidYN,attr,omitempty"`
	LastName        string            `xml:"LastName,omitempty"`
	ForeName        string            `xml:"ForeName,omitempty"`
	Initials        string            `xml:"Initials,omitempty"`
	CollectiveName  string            `xml:"CollectiveName,omitempty"`
	AffiliationInfo []AffiliationInfo `xml:"AffiliationInfo,omitempty"`
	AffiliationRef  string            `xml:"AffiliationRef,omitempty"`
}

// AffiliationInfo wraps one affiliation string.
type AffiliationInfo struct {
	Affiliation string `xml:"Affiliation"`
}

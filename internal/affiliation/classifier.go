// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affiliation decides whether an author affiliation names a
// for-profit organization and summarizes the corporate authors of a paper.
//
// Classification is case-insensitive substring matching against two keyword
// lists. Company keywords win over academic keywords. An affiliation that
// matches neither list is treated as corporate, so unlisted non-profit
// institutes show up as companies.
package affiliation

import (
	"sort"
	"strings"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// DefaultCompanyKeywords suggest a corporate affiliation.
var DefaultCompanyKeywords = []string{
	"inc", "ltd", "llc", "corp", "pharmaceuticals", "biotech",
	"therapeutics", "diagnostics", "solutions", "ventures",
}

// DefaultAcademicKeywords suggest an academic or non-profit institution.
var DefaultAcademicKeywords = []string{
	"university", "college", "school", "institute", "hospital", "academic",
	"medical center", "research center", "foundation",
}

// Keywords holds the two keyword lists a Classifier matches against.
type Keywords struct {
	Company  []string `json:"company" yaml:"company"`
	Academic []string `json:"academic" yaml:"academic"`
}

// Classifier holds an immutable, lower-cased copy of its keyword lists and is
// safe for concurrent use.
type Classifier struct {
	company  []string
	academic []string
}

// New returns a Classifier for kw. Keywords are lower-cased and blank entries
// dropped; the caller's slices are not retained.
func New(kw Keywords) *Classifier {
	return &Classifier{
		company:  normalize(kw.Company),
		academic: normalize(kw.Academic),
	}
}

// Default returns a Classifier using DefaultCompanyKeywords and DefaultAcademicKeywords.
func Default() *Classifier {
	return New(Keywords{Company: DefaultCompanyKeywords, Academic: DefaultAcademicKeywords})
}

// Keywords returns a copy of the lists the Classifier matches against.
func (c *Classifier) Keywords() Keywords {
	return Keywords{
		Company:  append([]string(nil), c.company...),
		Academic: append([]string(nil), c.academic...),
	}
}

// IsCorporate reports whether affiliation looks like a for-profit
// organization. Empty input is never corporate.
func (c *Classifier) IsCorporate(affiliation string) bool {
	if affiliation == "" {
		return false
	}
	lower := strings.ToLower(affiliation)

	if containsAny(lower, c.company) {
		return true
	}
	if containsAny(lower, c.academic) {
		return false
	}
	return true
}

// Analyze returns the names of corporate-affiliated authors in input order
// (duplicates kept) and their affiliations sorted and deduplicated by exact
// string equality.
func (c *Classifier) Analyze(authors []types.Author) (names []string, companies []string) {
	seen := make(map[string]struct{})
	for _, a := range authors {
		if !c.IsCorporate(a.Affiliation) {
			continue
		}
		names = append(names, a.Name)
		if _, ok := seen[a.Affiliation]; !ok {
			seen[a.Affiliation] = struct{}{}
			companies = append(companies, a.Affiliation)
		}
	}
	sort.Strings(companies)
	return names, companies
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

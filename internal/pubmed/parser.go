// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"regexp"
	"strings"

	"github.com/pdiddy/get-papers-list/internal/affiliation"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

const (
	// NoTitle replaces a missing or empty ArticleTitle.
	NoTitle = "No Title Found"

	// NoAffiliation replaces a missing or empty author affiliation.
	NoAffiliation = "N/A"

	// noYear stands in for a PubDate without Year or MedlineDate.
	noYear = "N/A"
)

// emailPattern finds an email address embedded in affiliation text, which is
// where PubMed usually puts the corresponding author's contact. Word
// characters include non-ASCII letters and digits.
var emailPattern = regexp.MustCompile(`[\p{L}\p{N}_.-]+@[\p{L}\p{N}_.-]+`)

// ParseRecord turns one raw article into a PaperRecord. It reports false when
// the article has no author list or no author classifies as corporate; both
// are skips, not errors.
func ParseRecord(a Article, c *affiliation.Classifier) (types.PaperRecord, bool) {
	art := a.Citation.Article
	if art == nil || art.AuthorList == nil {
		return types.PaperRecord{}, false
	}

	authors, email := parseAuthors(art.AuthorList)
	names, companies := c.Analyze(authors)
	if len(names) == 0 {
		return types.PaperRecord{}, false
	}

	title := art.Title.Text()
	if title == "" {
		title = NoTitle
	}

	return types.PaperRecord{
		ID:                  strings.TrimSpace(a.Citation.PMID),
		Title:               title,
		PublicationDate:     composeDate(art.Journal.Issue.PubDate),
		NonAcademicAuthors:  names,
		CompanyAffiliations: companies,
		CorrespondingEmail:  email,
	}, true
}

// parseAuthors converts the author list in document order and returns the
// first email found in the affiliation of an author flagged ValidYN="Y".
func parseAuthors(list *AuthorList) ([]types.Author, string) {
	authors := make([]types.Author, 0, len(list.Authors))
	var email string

	for _, ax := range list.Authors {
		a := types.Author{
			Name:        authorName(ax),
			Affiliation: firstAffiliation(ax),
			Valid:       ax.ValidYN == "Y",
		}
		authors = append(authors, a)

		if email == "" && a.Valid {
			email = extractEmail(a.Affiliation)
		}
	}
	return authors, email
}

// authorName joins fore and last name with a space and trims, so a missing
// part leaves no stray space. Group authors fall back to CollectiveName.
func authorName(ax AuthorXML) string {
	name := strings.TrimSpace(ax.ForeName + " " + ax.LastName)
	if name == "" {
		name = strings.TrimSpace(ax.CollectiveName)
	}
	return name
}

// firstAffiliation returns the text of the author's first AffiliationInfo.
func firstAffiliation(ax AuthorXML) string {
	if len(ax.AffiliationInfo) == 0 {
		return NoAffiliation
	}
	if text := ax.AffiliationInfo[0].Affiliation.Text(); text != "" {
		return text
	}
	return NoAffiliation
}

// extractEmail returns the first email-looking token in s, or "".
func extractEmail(s string) string {
	if !strings.Contains(s, "@") {
		return ""
	}
	m := emailPattern.FindString(s)
	// Affiliations end sentences with the address ("... jdoe@acme.com.").
	return strings.TrimRight(m, ".")
}

// composeDate joins Year, Month and Day with "-" and strips separators left
// at either end by missing parts.
func composeDate(pd *PubDate) string {
	if pd == nil {
		return noYear
	}
	year := strings.TrimSpace(pd.Year)
	if year == "" {
		if md := strings.TrimSpace(pd.MedlineDate); md != "" {
			return md
		}
		year = noYear
	}
	date := year + "-" + strings.TrimSpace(pd.Month) + "-" + strings.TrimSpace(pd.Day)
	return strings.Trim(date, "-")
}

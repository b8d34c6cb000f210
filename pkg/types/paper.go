// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the get-papers-list pipeline.
package types

import "strings"

// Author is one (name, affiliation) pair taken from a bibliographic record.
// Authors live only for the duration of one record's processing.
type Author struct {
	// Name is "ForeName LastName", trimmed.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the raw free-text affiliation, "N/A" when the record has none.
	Affiliation string `json:"affiliation" yaml:"affiliation"`

	// Valid mirrors the source schema's ValidYN="Y" flag.
	Valid bool `json:"valid" yaml:"valid"`
}

// PaperRecord is one paper with at least one non-academic author.
type PaperRecord struct {
	// ID is the PubMed identifier (PMID).
	ID string `json:"pubmed_id" yaml:"pubmed_id"`

	// Title is the article title, or a placeholder when the record has none.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is "Year-Month-Day" with missing parts dropped.
	PublicationDate string `json:"publication_date" yaml:"publication_date"`

	// NonAcademicAuthors lists corporate-affiliated authors in source order.
	NonAcademicAuthors []string `json:"non_academic_authors" yaml:"non_academic_authors"`

	// CompanyAffiliations is the sorted, deduplicated set of corporate affiliations.
	CompanyAffiliations []string `json:"company_affiliations" yaml:"company_affiliations"`

	// CorrespondingEmail is the first email found in a valid author's
	// affiliation. Empty when none was found.
	CorrespondingEmail string `json:"corresponding_email,omitempty" yaml:"corresponding_email,omitempty"`
}

// JoinedAuthors renders NonAcademicAuthors for flat output formats.
func (p PaperRecord) JoinedAuthors() string {
	return strings.Join(p.NonAcademicAuthors, ", ")
}

// JoinedCompanies renders CompanyAffiliations for flat output formats.
func (p PaperRecord) JoinedCompanies() string {
	return strings.Join(p.CompanyAffiliations, ", ")
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ArticleSet is the root element of an efetch response.
type ArticleSet struct {
	XMLName  xml.Name  `xml:"PubmedArticleSet"`
	Articles []Article `xml:"PubmedArticle"`
}

// Article is one raw PubmedArticle record. Only the fields the parser reads
// are mapped.
type Article struct {
	Citation MedlineCitation `xml:"MedlineCitation"`
}

// MedlineCitation holds the citation part of a PubmedArticle.
type MedlineCitation struct {
	PMID    string      `xml:"PMID"`
	Article *ArticleXML `xml:"Article"`
}

// ArticleXML is the <Article> element: journal, title and authors.
type ArticleXML struct {
	Journal    Journal     `xml:"Journal"`
	Title      *MixedText  `xml:"ArticleTitle"`
	AuthorList *AuthorList `xml:"AuthorList"`
}

// Journal carries the issue publication date.
type Journal struct {
	Issue struct {
		PubDate *PubDate `xml:"PubDate"`
	} `xml:"JournalIssue"`
}

// PubDate holds the date parts as the source gives them. Month may be a
// name ("Jan") or a number. MedlineDate is a free-form range used when the
// structured parts are missing.
type PubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

// AuthorList is the <AuthorList> element.
type AuthorList struct {
	Authors []AuthorXML `xml:"Author"`
}

// AuthorXML is one <Author> element.
type AuthorXML struct {
	ValidYN         string            `xml:"ValidYN,attr"`
	LastName        string            `xml:"LastName"`
	ForeName        string            `xml:"ForeName"`
	CollectiveName  string            `xml:"CollectiveName"`
	AffiliationInfo []AffiliationInfo `xml:"AffiliationInfo"`
}

// AffiliationInfo wraps one affiliation of an author.
type AffiliationInfo struct {
	Affiliation *MixedText `xml:"Affiliation"`
}

// MixedText captures an element that may contain inline markup such as
// <i>, <sup> or <sub>, as titles and affiliations often do.
type MixedText struct {
	Inner string `xml:",innerxml"`
}

// Text returns the element's character data with markup removed.
func (m *MixedText) Text() string {
	if m == nil {
		return ""
	}
	if !strings.Contains(m.Inner, "<") && !strings.Contains(m.Inner, "&") {
		return strings.TrimSpace(m.Inner)
	}

	var b strings.Builder
	dec := xml.NewDecoder(strings.NewReader(m.Inner))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return strings.TrimSpace(b.String())
}

// ParseDocument splits an efetch XML document into its article records.
func ParseDocument(data []byte) ([]Article, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		// E-utilities always sends UTF-8; some responses still declare a legacy name.
		switch strings.ToLower(charset) {
		case "utf-8", "us-ascii", "ascii":
			return input, nil
		}
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	var set ArticleSet
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("%w: decoding PubmedArticleSet: %v", ErrInvalidResponse, err)
	}
	return set.Articles, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs a query end to end: search for PMIDs, fetch the
// records in one batch, parse and classify each one, and keep the papers
// with at least one corporate-affiliated author.
//
// Run is best effort. A failing search or fetch, or a response that cannot
// be decoded, yields an empty result instead of an error; the failure is
// logged at WARN.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/pdiddy/get-papers-list/internal/affiliation"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// DefaultMaxResults caps the number of PMIDs requested per query.
const DefaultMaxResults = 50

// Searcher returns record identifiers matching a query term.
type Searcher interface {
	SearchIDs(ctx context.Context, term string, maxResults int) ([]string, error)
}

// Fetcher returns one document holding the full records for ids.
type Fetcher interface {
	FetchDetails(ctx context.Context, ids []string) ([]byte, error)
}

// Pipeline wires the collaborators for one or more runs. It holds no state
// between runs.
type Pipeline struct {
	Searcher   Searcher
	Fetcher    Fetcher
	Classifier *affiliation.Classifier

	// MaxResults caps the search; zero uses DefaultMaxResults.
	MaxResults int

	// Logger receives progress at DEBUG and collaborator failures at WARN.
	// Nil discards.
	Logger *slog.Logger
}

// Run executes query and returns the matching papers in source order.
func (p *Pipeline) Run(ctx context.Context, query string) []types.PaperRecord {
	log := p.logger()
	maxResults := p.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	log.Debug("searching", "query", query, "max_results", maxResults)
	ids, err := p.Searcher.SearchIDs(ctx, query, maxResults)
	if err != nil {
		log.Warn("search failed", "query", query, "error", err)
		return nil
	}
	if len(ids) == 0 {
		log.Debug("no ids found", "query", query)
		return nil
	}

	log.Debug("fetching details", "ids", len(ids))
	doc, err := p.Fetcher.FetchDetails(ctx, ids)
	if err != nil {
		log.Warn("fetch failed", "ids", len(ids), "error", err)
		return nil
	}
	if len(doc) == 0 {
		log.Debug("fetch returned no content", "ids", len(ids))
		return nil
	}

	articles, err := pubmed.ParseDocument(doc)
	if err != nil {
		log.Warn("could not parse fetched records", "bytes", len(doc), "error", err)
		return nil
	}

	classifier := p.Classifier
	if classifier == nil {
		classifier = affiliation.Default()
	}

	var papers []types.PaperRecord
	for _, a := range articles {
		rec, ok := pubmed.ParseRecord(a, classifier)
		if !ok {
			log.Debug("skipped record", "pmid", a.Citation.PMID)
			continue
		}
		papers = append(papers, rec)
	}

	log.Debug("processing complete", "records", len(articles), "matched", len(papers))
	return papers
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

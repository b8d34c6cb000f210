// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed talks to the NCBI E-utilities API and turns efetch XML
// into PaperRecords.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/get-papers-list/internal/httputil"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

const (
	// DefaultMaxResults caps esearch when the caller passes a non-positive max.
	DefaultMaxResults = 50

	// NCBI allows 3 requests per second without an API key, 10 with one.
	anonymousRateLimit = 3.0
	keyedRateLimit     = 10.0

	// errorBodyLimit bounds how much of a failed response ends up in an APIError.
	errorBodyLimit = 512
)

// Client is a rate-limited E-utilities client. It satisfies the search and
// fetch collaborators the pipeline needs.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	cfg        types.PubMedConfig
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom E-utilities root (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLimiter replaces the request rate limiter.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a client from cfg.
func NewClient(cfg types.PubMedConfig, opts ...ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = types.DefaultPipelineConfig().PubMed.BaseURL
	}
	rps := cfg.RateLimit
	if rps <= 0 {
		rps = anonymousRateLimit
		if cfg.APIKey != "" {
			rps = keyedRateLimit
		}
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchIDs runs an esearch query against PubMed and returns at most maxResults PMIDs
// in relevance order. A non-positive maxResults uses DefaultMaxResults.
func (c *Client) SearchIDs(ctx context.Context, term string, maxResults int) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	params := c.commonParams()
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("retmode", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/esearch.fcgi?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	body, err := c.do(ctx, "esearch", req)
	if err != nil {
		return nil, err
	}

	var sr esearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("%w: parsing esearch response: %v", ErrInvalidResponse, err)
	}
	if sr.Error != "" {
		return nil, &APIError{Endpoint: "esearch", StatusCode: http.StatusOK, Message: sr.Error}
	}
	if sr.Result.Error != "" {
		return nil, &APIError{Endpoint: "esearch", StatusCode: http.StatusOK, Message: sr.Result.Error}
	}

	ids := sr.Result.IDList
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

// FetchDetails posts an efetch request for ids and returns the raw
// PubmedArticleSet XML. An empty id list returns nil without a network call.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	form := c.commonParams()
	form.Set("id", strings.Join(ids, ","))
	form.Set("retmode", "xml")

	// POST keeps long id lists out of the URL.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/efetch.fcgi", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(ctx, "efetch", req)
}

// commonParams returns the parameters NCBI expects on every request.
func (c *Client) commonParams() url.Values {
	params := url.Values{"db": {"pubmed"}}
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	return params
}

// do waits for the limiter, sends req with 429 retries and returns the body
// of a 200 response.
func (c *Client) do(ctx context.Context, endpoint string, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("PubMed %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, endpoint)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return body, nil
}

// esearch JSON structures.
type esearchResponse struct {
	Error  string        `json:"error"`
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	RetMax string   `json:"retmax"`
	IDList []string `json:"idlist"`
	Error  string   `json:"ERROR"`
}

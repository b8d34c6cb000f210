// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/get-papers-list/internal/httputil"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testCfg() types.PubMedConfig {
	return types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "test/0.1",
		},
		Tool:       "get-papers-list-test",
		Email:      "dev@example.com",
		MaxRetries: 2,
	}
}

func newTestClient(ts *httptest.Server, cfg types.PubMedConfig) *Client {
	return NewClient(cfg,
		WithHTTPClient(ts.Client()),
		WithBaseURL(ts.URL+"/"),
		WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
}

const sampleEsearchJSON = `{
  "header": {"type": "esearch", "version": "0.3"},
  "esearchresult": {
    "count": "1234",
    "retmax": "3",
    "retstart": "0",
    "idlist": ["38000001", "38000002", "38000003"]
  }
}`

func TestSearchIDs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/esearch.fcgi", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "pubmed", q.Get("db"))
		assert.Equal(t, "cancer immunotherapy", q.Get("term"))
		assert.Equal(t, "3", q.Get("retmax"))
		assert.Equal(t, "json", q.Get("retmode"))
		assert.Equal(t, "get-papers-list-test", q.Get("tool"))
		assert.Equal(t, "dev@example.com", q.Get("email"))
		assert.Empty(t, q.Get("api_key"))
		assert.Equal(t, "test/0.1", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleEsearchJSON)
	}))
	defer ts.Close()

	c := newTestClient(ts, testCfg())
	ids, err := c.SearchIDs(context.Background(), "  cancer immunotherapy ", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"38000001", "38000002", "38000003"}, ids)
}

func TestSearchIDsCapsResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleEsearchJSON)
	}))
	defer ts.Close()

	ids, err := newTestClient(ts, testCfg()).SearchIDs(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"38000001", "38000002"}, ids)
}

func TestSearchIDsDefaultMaxAndAPIKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("retmax"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"esearchresult": {"idlist": []}}`)
	}))
	defer ts.Close()

	cfg := testCfg()
	cfg.APIKey = "secret"
	ids, err := newTestClient(ts, cfg).SearchIDs(context.Background(), "x", 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSearchIDsEmptyQuery(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	_, err := newTestClient(ts, testCfg()).SearchIDs(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSearchIDsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "http error",
			status: http.StatusInternalServerError,
			body:   "backend down",
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, "backend down", apiErr.Message)
			},
		},
		{
			name:   "payload error",
			status: http.StatusOK,
			body:   `{"esearchresult": {"ERROR": "Invalid query"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "Invalid query")
			},
		},
		{
			name:   "top-level error",
			status: http.StatusOK,
			body:   `{"error": "API key invalid"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "API key invalid")
			},
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidResponse)
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				assert.True(t, IsRateLimited(err))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			_, err := newTestClient(ts, testCfg()).SearchIDs(context.Background(), "x", 5)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestFetchDetails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/efetch.fcgi", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "pubmed", r.PostForm.Get("db"))
		assert.Equal(t, "38000001,38000002", r.PostForm.Get("id"))
		assert.Equal(t, "xml", r.PostForm.Get("retmode"))
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, sampleEfetchXML)
	}))
	defer ts.Close()

	doc, err := newTestClient(ts, testCfg()).FetchDetails(context.Background(), []string{"38000001", "38000002"})
	require.NoError(t, err)
	assert.Equal(t, sampleEfetchXML, string(doc))
}

func TestFetchDetailsEmptyIDs(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	doc, err := newTestClient(ts, testCfg()).FetchDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestFetchDetailsRetriesPost(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "1", r.PostForm.Get("id"))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "<PubmedArticleSet/>")
	}))
	defer ts.Close()

	doc, err := newTestClient(ts, testCfg()).FetchDetails(context.Background(), []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "<PubmedArticleSet/>", string(doc))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewClientRateLimit(t *testing.T) {
	c := NewClient(types.PubMedConfig{})
	assert.Equal(t, rate.Limit(anonymousRateLimit), c.limiter.Limit())
	assert.Equal(t, types.DefaultPipelineConfig().PubMed.BaseURL, c.baseURL)

	c = NewClient(types.PubMedConfig{APIKey: "k"})
	assert.Equal(t, rate.Limit(keyedRateLimit), c.limiter.Limit())

	c = NewClient(types.PubMedConfig{RateLimit: 1.5})
	assert.Equal(t, rate.Limit(1.5), c.limiter.Limit())
}

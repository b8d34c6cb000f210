// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned by SearchIDs for a blank search term.
	ErrEmptyQuery = errors.New("empty PubMed query")

	// ErrRateLimited indicates NCBI kept answering 429 after all retries.
	ErrRateLimited = errors.New("PubMed rate limit exceeded")

	// ErrInvalidResponse indicates a response body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from PubMed")
)

// APIError is a non-200 response or an error reported inside an E-utilities payload.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("PubMed %s error (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("PubMed %s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// IsRateLimited reports whether err came from NCBI rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}

package domain

import (
	"fmt"
	"net/http"
)

// UpstreamError reports a non-success HTTP status from the GitHub API.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	if e.RateLimitSuspected() {
		return fmt.Sprintf("github api error: status %d (rate limit may be exceeded)", e.StatusCode)
	}
	return fmt.Sprintf("github api error: status %d", e.StatusCode)
}

// RateLimitSuspected reports whether the status suggests quota exhaustion.
// This is informational; callers still treat the request as failed.
func (e *UpstreamError) RateLimitSuspected() bool {
	return e.StatusCode == http.StatusForbidden
}

// MalformedIdentifierError reports a repository identifier that is not in
// "owner/name" form. It is a configuration error and is never retried.
type MalformedIdentifierError struct {
	Identifier string
}

func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("malformed repository identifier %q: expected owner/name", e.Identifier)
}

// NetworkError reports a transport-level failure before any HTTP status was
// obtained, including per-request timeouts.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

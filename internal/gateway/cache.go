package gateway

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached response stays fresh.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	statusCode int
	header     http.Header
	body       []byte
	fetchedAt  time.Time
}

// ResponseCache stores successful API responses keyed by full request URL
// (query string included) so repeated page fetches within one run skip the
// round-trip. Entries are never evicted, only judged stale on read and
// superseded by the next successful fetch.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResponseCache creates a cache with the given TTL, defaulting to
// DefaultCacheTTL when zero.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *ResponseCache) get(key string) (*cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry, true
}

func (c *ResponseCache) put(key string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.fetchedAt = c.now()
	c.entries[key] = entry
}

// Len returns the number of stored entries, fresh or stale.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// cachingTransport is an http.RoundTripper that serves fresh cached responses
// for GET requests and writes every successful GET response through to the
// cache. Non-GET requests pass straight to the underlying transport.
type cachingTransport struct {
	base  http.RoundTripper
	cache *ResponseCache
}

func (t *cachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	key := req.URL.String()
	if entry, ok := t.cache.get(key); ok {
		return replayResponse(req, entry), nil
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		t.cache.put(key, &cacheEntry{
			statusCode: resp.StatusCode,
			header:     resp.Header.Clone(),
			body:       body,
		})
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

func replayResponse(req *http.Request, entry *cacheEntry) *http.Response {
	return &http.Response{
		StatusCode: entry.statusCode,
		Status:     http.StatusText(entry.statusCode),
		Header:     entry.header.Clone(),
		Body:       io.NopCloser(bytes.NewReader(entry.body)),
		Request:    req,
	}
}

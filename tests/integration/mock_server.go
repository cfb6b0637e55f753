package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockMediaServer simulates a media CDN for download tests. It serves
// deterministic image bytes for any /img/ path and can simulate errors
// and rate limiting per test.
type MockMediaServer struct {
	server *httptest.Server

	mu             sync.Mutex
	requestCount   int
	rateLimitAfter int // 429 after this many requests; 0 = never
	rateLimitHits  int
	errorPaths     map[string]int // path -> status code
	contentType    string
}

// NewMockMediaServer creates and starts a new mock media server
func NewMockMediaServer() *MockMediaServer {
	m := &MockMediaServer{
		errorPaths:  make(map[string]int),
		contentType: "image/jpeg",
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// GetURL returns the base URL of the mock server
func (m *MockMediaServer) GetURL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockMediaServer) Close() {
	m.server.Close()
}

// SetErrorResponse makes the given path return the given status code
func (m *MockMediaServer) SetErrorResponse(path string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[path] = statusCode
}

// SetRateLimitAfter makes the server return 429 once the request count
// exceeds n
func (m *MockMediaServer) SetRateLimitAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimitAfter = n
}

// SetContentType overrides the Content-Type served for image responses
func (m *MockMediaServer) SetContentType(ct string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contentType = ct
}

// GetRequestCount returns the number of requests handled
func (m *MockMediaServer) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// GetRateLimitHits returns how many requests were rejected with 429
func (m *MockMediaServer) GetRateLimitHits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rateLimitHits
}

// ResetCounters resets request and rate limit counters
func (m *MockMediaServer) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.rateLimitHits = 0
}

// ImageURL builds a media URL on this server with the redscrape naming
// convention: a trailing -<name>.jpg segment.
func (m *MockMediaServer) ImageURL(name string) string {
	return fmt.Sprintf("%s/img/pic-%s.jpg", m.server.URL, name)
}

func (m *MockMediaServer) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requestCount++
	count := m.requestCount

	if status, ok := m.errorPaths[r.URL.Path]; ok {
		m.mu.Unlock()
		http.Error(w, http.StatusText(status), status)
		return
	}

	if m.rateLimitAfter > 0 && count > m.rateLimitAfter {
		m.rateLimitHits++
		m.mu.Unlock()
		w.Header().Set("Retry-After", "60")
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	ct := m.contentType
	m.mu.Unlock()

	if !strings.HasPrefix(r.URL.Path, "/img/") {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", ct)
	// Deterministic payload derived from the path so tests can verify
	// the right bytes landed in the right file.
	fmt.Fprintf(w, "image-bytes:%s", r.URL.Path)
}

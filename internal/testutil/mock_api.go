// Package testutil provides testing utilities for the admin dashboard.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock API endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable mock of the shop backend API.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount    int
	LastQuery       url.Values
	LastRequestAuth string
	queries         []url.Values
}

// NewMockAPI creates a new mock API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		mock.LastRequestAuth = r.Header.Get("Authorization")
		mock.queries = append(mock.queries, r.URL.Query())
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "message": "route not found"}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastQuery = nil
	m.LastRequestAuth = ""
	m.queries = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeMockResponse(w, r, resp)
	})
}

// SetResponder configures a response computed from the request query, e.g.
// to answer different pages differently.
func (m *MockAPI) SetResponder(path string, fn func(q url.Values) MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeMockResponse(w, r, fn(r.URL.Query()))
	})
}

func writeMockResponse(w http.ResponseWriter, r *http.Request, resp MockResponse) {
	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastQuery returns the query parameters of the most recent request.
func (m *MockAPI) GetLastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// GetQueries returns the query parameters of every request, in arrival order.
func (m *MockAPI) GetQueries() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]url.Values, len(m.queries))
	copy(out, m.queries)
	return out
}

// NewListResponse creates a 200 response in the {success: true} envelope shape.
func NewListResponse(items any, totalItems, totalPages int) MockResponse {
	return newEnvelope(map[string]any{
		"success": true,
		"data":    items,
		"pagination": map[string]int{
			"totalItems": totalItems,
			"totalPages": totalPages,
		},
	})
}

// NewStatusListResponse creates a 200 response in the {status: "success"} envelope shape.
func NewStatusListResponse(items any, totalItems, totalPages int) MockResponse {
	return newEnvelope(map[string]any{
		"status": "success",
		"data":   items,
		"pagination": map[string]int{
			"totalItems": totalItems,
			"totalPages": totalPages,
		},
	})
}

// NewMalformedResponse creates a 200 response whose envelope reports failure.
func NewMalformedResponse(message string) MockResponse {
	return newEnvelope(map[string]any{
		"success": false,
		"message": message,
	})
}

// NewNotFoundResponse creates the 404 the API sends when nothing matches.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"success": false, "message": "No records found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse(message string) MockResponse {
	body, _ := json.Marshal(map[string]any{"success": false, "message": message})
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

func newEnvelope(payload map[string]any) MockResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		panic("testutil: marshal envelope: " + err.Error())
	}
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

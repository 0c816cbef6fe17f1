package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, serverURL string, mutate func(*Config)) *Client {
	t.Helper()

	cfg := DefaultConfig(serverURL)
	if mutate != nil {
		mutate(&cfg)
	}

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			config:      DefaultConfig("https://shop.example.com/api"),
			expectError: false,
		},
		{
			name:        "empty base url",
			config:      DefaultConfig(""),
			expectError: true,
			errorMsg:    "base url is required",
		},
		{
			name:        "unsupported scheme",
			config:      DefaultConfig("ftp://shop.example.com"),
			expectError: true,
			errorMsg:    `base url must be http or https (got "ftp://shop.example.com")`,
		},
		{
			name: "zero timeout",
			config: Config{
				BaseURL: "https://shop.example.com",
			},
			expectError: true,
			errorMsg:    "timeout must be > 0 (got 0s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if client == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("http://localhost:5000/api")

	if cfg.BaseURL != "http://localhost:5000/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d, want 1", cfg.MaxAttempts)
	}
	if cfg.Timeout <= 0 {
		t.Errorf("Timeout = %v, should be > 0", cfg.Timeout)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorClass
	}{
		{404, ErrorClassClient},
		{403, ErrorClassClient},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
		{200, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestGet_RequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotRequestID, gotAccept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api", func(cfg *Config) {
		cfg.Token = "secret"
	})

	resp, err := c.Get(context.Background(), "/admin/users", url.Values{"page": {"2"}, "limit": {"10"}})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if resp.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", resp.Status)
	}
	if string(resp.Data) != `{"success":true}` {
		t.Errorf("Data = %s", resp.Data)
	}
	if gotPath != "/api/admin/users" {
		t.Errorf("path = %q, want /api/admin/users", gotPath)
	}
	if gotQuery != "limit=10&page=2" {
		t.Errorf("query = %q, want limit=10&page=2", gotQuery)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID not set")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestAnonymous_NoAuthorization(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.Token = "secret"
	})
	anon := c.Anonymous()

	if anon.Authenticated() {
		t.Error("Anonymous client reports Authenticated")
	}
	if !c.Authenticated() {
		t.Error("original client lost its token")
	}

	if _, err := anon.Get(context.Background(), "/products/categories", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestPut_SendsJSONBody(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, nil)

	if _, err := c.Put(context.Background(), "/admin/users/7", nil, map[string]string{"role": "admin"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody["role"] != "admin" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestDo_ErrorStatus(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantClass    ErrorClass
		wantMessage  string
		wantFromBody bool
	}{
		{
			name:         "not found with message",
			status:       http.StatusNotFound,
			body:         `{"success":false,"message":"No orders found"}`,
			wantClass:    ErrorClassClient,
			wantMessage:  "No orders found",
			wantFromBody: true,
		},
		{
			name:         "server error with error field",
			status:       http.StatusInternalServerError,
			body:         `{"error":"database unavailable"}`,
			wantClass:    ErrorClassServer,
			wantMessage:  "database unavailable",
			wantFromBody: true,
		},
		{
			name:        "non json body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantClass:   ErrorClassServer,
			wantMessage: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL, nil)
			_, err := c.Get(context.Background(), "/admin/allOrders", nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if apiErr.ErrorClass != tt.wantClass {
				t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, tt.wantClass)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.FromBody != tt.wantFromBody {
				t.Errorf("FromBody = %v, want %v", apiErr.FromBody, tt.wantFromBody)
			}
		})
	}
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.MaxAttempts = 3
		cfg.InitialBackoff = 5 * time.Millisecond
	})

	if _, err := c.Get(context.Background(), "/admin/users", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestDo_NoRetryOnNotFound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, func(cfg *Config) {
		cfg.MaxAttempts = 3
		cfg.InitialBackoff = 5 * time.Millisecond
	})

	_, err := c.Get(context.Background(), "/admin/users", nil)
	if !IsNotFound(err) {
		t.Fatalf("error = %v, want 404", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestDo_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	c := newTestClient(t, serverURL, nil)
	_, err := c.Get(context.Background(), "/admin/users", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %q, want network", apiErr.ErrorClass)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", apiErr.StatusCode)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := newTestClient(t, server.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Get(ctx, "/admin/users", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// Package client provides the HTTP client the admin screens use to talk to
// the shop backend API, with bearer-token authentication, error
// classification and optional retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for backend API calls.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_admin_api_requests_total",
		Help: "Total backend API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_admin_api_request_duration_seconds",
		Help:    "Backend API request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_admin_api_errors_total",
		Help: "Total backend API errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// Response is the decoded result of a successful (2xx) API call.
type Response struct {
	Status int
	Header http.Header
	Data   []byte
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the backend API, e.g. "https://shop.example.com/api".
	BaseURL string

	// Token is sent as a bearer token. Empty means anonymous requests.
	Token string

	// UserAgent header value.
	UserAgent string

	// Timeout per HTTP attempt.
	Timeout time.Duration

	// Retry
	MaxAttempts    int // 1 disables retries
	InitialBackoff time.Duration
}

// DefaultConfig returns a configuration with conservative defaults.
// Retries are off: the admin screens offer a manual retry action instead.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		UserAgent:      "shop-admin/0.1.0",
		Timeout:        30 * time.Second,
		MaxAttempts:    1,
		InitialBackoff: 500 * time.Millisecond,
	}
}

// Client is the backend API client.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		config:  cfg,
		logger:  logging.NewLogger("api-client"),
	}, nil
}

// Authenticated reports whether requests carry a bearer token.
func (c *Client) Authenticated() bool {
	return c.config.Token != ""
}

// Anonymous returns a copy of the client that sends no bearer token.
// It shares the underlying HTTP client.
func (c *Client) Anonymous() *Client {
	cp := *c
	cp.config.Token = ""
	return &cp
}

// Get performs a GET request against path with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, params, nil)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, params url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, params, body)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, params url.Values, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, params, body)
}

// Do performs an API request. Non-2xx statuses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	endpoint := "/" + strings.TrimLeft(path, "/")
	target := c.baseURL.JoinPath(endpoint)
	if len(params) > 0 {
		target.RawQuery = params.Encode()
	}

	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	requestID := uuid.NewString()

	var result *Response
	err := retryWithBackoff(ctx, c.retryConfig(), func() (ErrorClass, error) {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, target.String(), reqBody)
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		c.setHeaders(req, requestID, payload != nil)

		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", method).
			Str("request_id", requestID).
			Msg("Executing API request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			apiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
			return ErrorClassNetwork, &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "network error",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return ErrorClassNetwork, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNetwork,
				Message:    "read response body",
				Err:        err,
			}
		}

		apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			apiErrorsTotal.WithLabelValues(string(class)).Inc()

			c.logger.Debug().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("API request error")

			message, fromBody := errorMessage(resp.StatusCode, data)
			return class, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: class,
				Message:    message,
				FromBody:   fromBody,
			}
		}

		result = &Response{
			Status: resp.StatusCode,
			Header: resp.Header.Clone(),
			Data:   data,
		}
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) setHeaders(req *http.Request, requestID string, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}

func (c *Client) retryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = c.config.MaxAttempts
	if c.config.InitialBackoff > 0 {
		cfg.InitialBackoff = c.config.InitialBackoff
	}
	return cfg
}

// classifyStatus categorizes an HTTP error status.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// errorMessage extracts the "message" or "error" field of a JSON error body.
// Without one it falls back to the HTTP status text and reports false.
func errorMessage(status int, body []byte) (string, bool) {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message, true
		}
		if payload.Error != "" {
			return payload.Error, true
		}
	}
	return http.StatusText(status), false
}

// isContextError reports whether err came from a cancelled or expired context.
func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

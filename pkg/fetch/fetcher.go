package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/client"
	"github.com/Sternrassler/shop-admin/pkg/logging"
	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_admin_fetch_total",
		Help: "Total list fetches by screen and outcome",
	}, []string{"screen", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_admin_fetch_duration_seconds",
		Help:    "List fetch duration in seconds by screen",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"screen"})
)

// ErrMalformedEnvelope is the cause of a Failure whose response body was not
// a success envelope.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

// Getter is the part of the API client the fetcher needs.
type Getter interface {
	Get(ctx context.Context, path string, params url.Values) (*client.Response, error)
}

// Fetcher issues list requests for one screen.
type Fetcher[T any] struct {
	getter   Getter
	screen   string
	endpoint string
	notifier Notifier
	logger   zerolog.Logger
}

// NewFetcher creates a fetcher for the list endpoint of screen.
// A nil notifier discards notifications.
func NewFetcher[T any](getter Getter, screen, endpoint string, notifier Notifier) *Fetcher[T] {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &Fetcher[T]{
		getter:   getter,
		screen:   screen,
		endpoint: endpoint,
		notifier: notifier,
		logger:   logging.ForScreen("fetcher", screen),
	}
}

// Screen returns the screen name the fetcher was created for.
func (f *Fetcher[T]) Screen() string { return f.screen }

// envelope accepts both {success: true, ...} and {status: "success", ...}.
type envelope struct {
	Success    *bool           `json:"success"`
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		TotalItems int `json:"totalItems"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

func (e *envelope) ok() bool {
	return (e.Success != nil && *e.Success) || e.Status == "success"
}

// Fetch requests one page for q and classifies the result. It never returns
// an error: failures become a StatusFailure outcome, and all failures except
// cancellation also emit a notification.
func (f *Fetcher[T]) Fetch(ctx context.Context, q query.ListQuery) Outcome[T] {
	start := time.Now()
	defer func() {
		fetchDuration.WithLabelValues(f.screen).Observe(time.Since(start).Seconds())
	}()

	f.logger.Debug().
		Str("endpoint", f.endpoint).
		Int("page", q.Page).
		Int("limit", q.PageSize).
		Msg("Fetching list")

	resp, err := f.getter.Get(ctx, f.endpoint, q.Values())
	if err != nil {
		return f.classifyError(ctx, err)
	}

	result, err := decode[T](resp.Data)
	if err != nil {
		return f.fail(err, serverMessage(resp.Data))
	}

	fetchTotal.WithLabelValues(f.screen, string(StatusSuccess)).Inc()
	f.logger.Debug().
		Int("items", len(result.Items)).
		Int("total_items", result.TotalItems).
		Int("total_pages", result.TotalPages).
		Msg("List fetched")

	return Success(result)
}

func (f *Fetcher[T]) classifyError(ctx context.Context, err error) Outcome[T] {
	if ctx.Err() != nil {
		fetchTotal.WithLabelValues(f.screen, "cancelled").Inc()
		return Failure[T](f.fallbackMessage(), fmt.Errorf("fetch %s: %w", f.screen, ctx.Err()))
	}

	if client.IsNotFound(err) {
		fetchTotal.WithLabelValues(f.screen, string(StatusEmptyNotFound)).Inc()
		f.logger.Debug().Msg("No matching resources (404)")
		return EmptyNotFound[T]()
	}

	return f.fail(err, client.ServerMessage(err))
}

// fail builds a Failure outcome and notifies the user.
func (f *Fetcher[T]) fail(err error, serverMsg string) Outcome[T] {
	message := f.fallbackMessage()
	if serverMsg != "" {
		message = serverMsg
	}

	fetchTotal.WithLabelValues(f.screen, string(StatusFailure)).Inc()
	f.logger.Warn().Err(err).Str("endpoint", f.endpoint).Msg("List fetch failed")

	f.notifier.Notify(Notification{
		Level:   LevelError,
		Screen:  f.screen,
		Message: message,
	})

	return Failure[T](message, fmt.Errorf("fetch %s: %w", f.screen, err))
}

func (f *Fetcher[T]) fallbackMessage() string {
	return "Failed to fetch " + f.screen
}

// decode parses a success envelope into a Result.
func decode[T any](body []byte) (Result[T], error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Result[T]{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	if !env.ok() {
		msg := env.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return Result[T]{}, fmt.Errorf("%w: %s", ErrMalformedEnvelope, msg)
	}

	result := EmptyResult[T]()

	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &result.Items); err != nil {
			return Result[T]{}, fmt.Errorf("%w: data: %v", ErrMalformedEnvelope, err)
		}
		if result.Items == nil {
			result.Items = []T{}
		}
	}

	if env.Pagination != nil {
		if env.Pagination.TotalItems > 0 {
			result.TotalItems = env.Pagination.TotalItems
		}
		if env.Pagination.TotalPages > 1 {
			result.TotalPages = env.Pagination.TotalPages
		}
	}

	return result, nil
}

// serverMessage extracts the message field of a body, if any.
func serverMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}

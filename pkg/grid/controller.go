// Package grid implements the list-and-filter controller shared by the admin
// screens: query state with page reset on filter changes, one fetch per query
// change, and last-writer-wins application of fetch outcomes.
package grid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Sternrassler/shop-admin/pkg/fetch"
	"github.com/Sternrassler/shop-admin/pkg/logging"
	"github.com/Sternrassler/shop-admin/pkg/pagination"
	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	fetchesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_admin_grid_fetches_issued_total",
		Help: "Total fetches issued by grid controllers",
	}, []string{"screen"})

	staleResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_admin_grid_stale_results_total",
		Help: "Fetch results discarded because a newer fetch was issued or the controller was closed",
	}, []string{"screen"})
)

var (
	// ErrUnknownFilter is returned by SetFilter for keys the screen does not declare.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrClosed is returned by mutations on a closed controller.
	ErrClosed = errors.New("controller closed")
)

// Source fetches one page of rows. *fetch.Fetcher satisfies it.
type Source[T any] interface {
	Fetch(ctx context.Context, q query.ListQuery) fetch.Outcome[T]
}

// Controller owns the query and fetch state of one screen.
//
// Every mutation that changes the query issues exactly one fetch. Only the
// latest issued fetch may be applied: each fetch carries a generation number
// that is compared when its result arrives, and issuing a fetch cancels the
// previous one.
type Controller[T any] struct {
	screen Screen[T]
	source Source[T]
	logger zerolog.Logger

	root       context.Context
	rootCancel context.CancelFunc

	mu         sync.Mutex
	q          query.ListQuery
	outcome    fetch.Outcome[T]
	result     fetch.Result[T]
	pageInput  string
	generation uint64
	cancel     context.CancelFunc
	idle       chan struct{} // nil when no fetch is pending
	closed     bool

	subMu  sync.Mutex
	subs   map[int]func(State[T])
	nextID int
}

// ControllerOption configures a Controller.
type ControllerOption[T any] func(*Controller[T])

// WithQuery sets the initial query.
func WithQuery[T any](q query.ListQuery) ControllerOption[T] {
	return func(c *Controller[T]) {
		c.q = normalize(q)
	}
}

// WithLogger overrides the controller's logger.
func WithLogger[T any](logger zerolog.Logger) ControllerOption[T] {
	return func(c *Controller[T]) {
		c.logger = logger
	}
}

// NewController creates a controller for screen. No fetch is issued until
// Refresh or another mutation is called.
func NewController[T any](screen Screen[T], source Source[T], opts ...ControllerOption[T]) *Controller[T] {
	root, cancel := context.WithCancel(context.Background())
	c := &Controller[T]{
		screen:     screen,
		source:     source,
		logger:     logging.ForScreen("grid", screen.Name),
		root:       root,
		rootCancel: cancel,
		q:          query.New(),
		result:     fetch.EmptyResult[T](),
		subs:       make(map[int]func(State[T])),
	}
	c.outcome = fetch.Success(c.result)
	for _, opt := range opts {
		opt(c)
	}
	c.pageInput = strconv.Itoa(c.q.Page)
	return c
}

// Screen returns the screen configuration.
func (c *Controller[T]) Screen() Screen[T] { return c.screen }

// Query returns a copy of the current query.
func (c *Controller[T]) Query() query.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.q.Clone()
}

// SetSearch sets the search text and resets the page to 1.
func (c *Controller[T]) SetSearch(text string) error {
	return c.update(func(q query.ListQuery) (query.ListQuery, error) {
		return q.WithSearch(text), nil
	})
}

// SetFilter sets one categorical filter and resets the page to 1. An empty
// value removes the filter.
func (c *Controller[T]) SetFilter(key, value string) error {
	if !c.screen.HasFilter(key) {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}
	return c.update(func(q query.ListQuery) (query.ListQuery, error) {
		return q.WithFilter(key, value), nil
	})
}

// SetPageSize sets the page size and resets the page to 1.
func (c *Controller[T]) SetPageSize(n int) error {
	return c.update(func(q query.ListQuery) (query.ListQuery, error) {
		return q.WithPageSize(n)
	})
}

// SetPage moves to page n when 1 <= n <= TotalPages and reports whether n
// was accepted. Out-of-range values leave the state unchanged.
func (c *Controller[T]) SetPage(n int) bool {
	c.mu.Lock()
	if c.closed || n < 1 || n > c.result.TotalPages {
		c.mu.Unlock()
		return false
	}

	nq, _ := c.q.WithPage(n)
	c.pageInput = strconv.Itoa(n)
	c.replaceLocked(nq)
	c.mu.Unlock()

	c.publish()
	return true
}

// GoToPage parses raw as a page number and moves there. When raw is not an
// integer or is out of range the page is unchanged and the input echo
// reverts to the current page.
func (c *Controller[T]) GoToPage(raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil && c.SetPage(n) {
		return true
	}

	c.mu.Lock()
	c.pageInput = strconv.Itoa(c.q.Page)
	c.mu.Unlock()
	c.publish()
	return false
}

// SetPageInput updates the "go to page" echo without moving.
func (c *Controller[T]) SetPageInput(raw string) {
	c.mu.Lock()
	c.pageInput = raw
	c.mu.Unlock()
	c.publish()
}

// PageInput returns the "go to page" echo.
func (c *Controller[T]) PageInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageInput
}

// ClearFilters empties search and all filters, resets the page to 1 and
// fetches, even when nothing was set.
func (c *Controller[T]) ClearFilters() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.q = c.q.Cleared()
	c.pageInput = "1"
	c.issueLocked()
	c.mu.Unlock()
	c.publish()
}

// Restore replaces the whole query and fetches. Invalid page sizes fall back
// to the default and pages below 1 to the first page.
func (c *Controller[T]) Restore(q query.ListQuery) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.q = normalize(q)
	c.pageInput = strconv.Itoa(c.q.Page)
	c.issueLocked()
	c.mu.Unlock()
	c.publish()
}

// Refresh fetches the current query.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.issueLocked()
	c.mu.Unlock()
	c.publish()
}

// Retry re-issues the fetch for the current query after a failure.
func (c *Controller[T]) Retry() { c.Refresh() }

// State returns a snapshot of the controller.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Window returns the pagination controls for the current state.
func (c *Controller[T]) Window(maxVisible int) pagination.Window {
	c.mu.Lock()
	page, total := c.q.Page, c.result.TotalPages
	c.mu.Unlock()

	return pagination.Render(min(page, total), total, maxVisible, pagination.DefaultSiblings)
}

// Export writes the loaded rows as CSV. It never fetches.
func (c *Controller[T]) Export(w io.Writer) error {
	c.mu.Lock()
	rows := c.result.Items
	c.mu.Unlock()

	if err := c.screen.Encoder().Write(w, rows); err != nil {
		return fmt.Errorf("export %s: %w", c.screen.Name, err)
	}
	c.logger.Info().Int("rows", len(rows)).Msg("Exported loaded rows")
	return nil
}

// Subscribe registers fn to receive a snapshot after every state change and
// returns a function that removes it. Snapshots may arrive out of order
// across goroutines; compare Generation to drop older ones.
func (c *Controller[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Wait blocks until the latest issued fetch has been applied, the controller
// is closed, or ctx is done.
func (c *Controller[T]) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	if idle == nil {
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any pending fetch. Results arriving afterwards are discarded.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.rootCancel()
	c.cancel = nil
	if c.idle != nil {
		close(c.idle)
		c.idle = nil
	}
}

// update applies fn to the query and fetches when the query changed.
func (c *Controller[T]) update(fn func(query.ListQuery) (query.ListQuery, error)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	nq, err := fn(c.q)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.pageInput = strconv.Itoa(nq.Page)
	c.replaceLocked(nq)
	c.mu.Unlock()

	c.publish()
	return nil
}

// replaceLocked stores nq and issues a fetch when it differs from the
// current query. It reports whether a fetch was issued.
func (c *Controller[T]) replaceLocked(nq query.ListQuery) bool {
	if c.q.Equal(nq) {
		return false
	}
	c.q = nq
	c.issueLocked()
	return true
}

// issueLocked starts a fetch for the current query as a new generation.
func (c *Controller[T]) issueLocked() {
	if c.cancel != nil {
		c.cancel()
	}

	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(c.root)
	c.cancel = cancel
	if c.idle == nil {
		c.idle = make(chan struct{})
	}
	c.outcome = fetch.Loading[T]()

	q := c.q.Clone()
	fetchesIssued.WithLabelValues(c.screen.Name).Inc()
	c.logger.Debug().
		Uint64("generation", gen).
		Int("page", q.Page).
		Int("limit", q.PageSize).
		Msg("Issuing fetch")

	go c.run(ctx, cancel, gen, q)
}

func (c *Controller[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, q query.ListQuery) {
	defer cancel()

	out := c.source.Fetch(ctx, q)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		staleResults.WithLabelValues(c.screen.Name).Inc()
		c.logger.Debug().Uint64("generation", gen).Msg("Discarding stale fetch result")
		return
	}

	c.outcome = out
	if out.HasResult() {
		c.result = out.Result
	}
	c.cancel = nil
	if c.idle != nil {
		close(c.idle)
		c.idle = nil
	}
	c.mu.Unlock()

	c.logger.Debug().
		Uint64("generation", gen).
		Str("status", string(out.Status)).
		Msg("Applied fetch result")
	c.publish()
}

func (c *Controller[T]) snapshotLocked() State[T] {
	items := c.result.Items
	filters := make([]FilterState, len(c.screen.Filters))
	for i, f := range c.screen.Filters {
		filters[i] = FilterState{
			Key:      f.Key,
			AllLabel: f.AllLabel,
			Selected: c.q.Filter(f.Key),
			Options:  f.options(items),
		}
	}

	return State[T]{
		Generation: c.generation,
		Query:      c.q.Clone(),
		Status:     c.outcome.Status,
		Message:    c.outcome.Message,
		Err:        c.outcome.Err,
		Items:      items,
		TotalItems: c.result.TotalItems,
		TotalPages: c.result.TotalPages,
		PageInput:  c.pageInput,
		Range:      newRange(c.q, c.result.TotalItems),
		Filters:    filters,
	}
}

// publish delivers a fresh snapshot to subscribers.
func (c *Controller[T]) publish() {
	c.subMu.Lock()
	if len(c.subs) == 0 {
		c.subMu.Unlock()
		return
	}
	subs := make([]func(State[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	state := c.State()
	for _, fn := range subs {
		fn(state)
	}
}

func normalize(q query.ListQuery) query.ListQuery {
	q = q.Clone()
	if q.Page < 1 {
		q.Page = 1
	}
	if !query.ValidPageSize(q.PageSize) {
		q.PageSize = query.DefaultPageSize
	}
	return q
}

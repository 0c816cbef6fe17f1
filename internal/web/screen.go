package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/export"
	"github.com/Sternrassler/shop-admin/pkg/fetch"
	"github.com/Sternrassler/shop-admin/pkg/grid"
	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/Sternrassler/shop-admin/pkg/session"
	"github.com/gin-gonic/gin"
)

// Request parameters of the screen pages besides the list query.
const (
	paramGoTo  = "goto"
	paramClear = "clear"
)

const sessionSaveTimeout = 2 * time.Second

// screenHandler serves one grid screen.
type screenHandler[T any] struct {
	srv    *Server
	screen grid.Screen[T]
	path   string
}

// mountScreen registers the list page and the CSV export of screen.
func mountScreen[T any](s *Server, group *gin.RouterGroup, path string, screen grid.Screen[T]) {
	h := &screenHandler[T]{
		srv:    s,
		screen: screen,
		path:   group.BasePath() + path,
	}
	group.GET(path, h.list)
	group.GET(path+"/export", h.export)
}

// collector gathers the notifications a request's fetches emit.
type collector struct {
	mu    sync.Mutex
	notes []fetch.Notification
}

func (n *collector) Notify(note fetch.Notification) {
	n.mu.Lock()
	n.notes = append(n.notes, note)
	n.mu.Unlock()
}

func (n *collector) all() []fetch.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]fetch.Notification(nil), n.notes...)
}

func (h *screenHandler[T]) newController(notifier fetch.Notifier) *grid.Controller[T] {
	fetcher := fetch.NewFetcher[T](h.srv.api, h.screen.Name, h.screen.Endpoint, notifier)
	return grid.NewController(h.screen, grid.Source[T](fetcher))
}

// list renders the screen for the requested query.
func (h *screenHandler[T]) list(c *gin.Context) {
	ctx := c.Request.Context()
	values := c.Request.URL.Query()
	notes := &collector{}

	ctrl := h.newController(notes)
	defer ctrl.Close()

	ctrl.Restore(h.resolveQuery(c))
	if values.Has(paramClear) {
		ctrl.ClearFilters()
	}
	if err := ctrl.Wait(ctx); err != nil {
		c.Status(http.StatusRequestTimeout)
		return
	}

	if values.Has(paramGoTo) {
		raw := values.Get(paramGoTo)
		ctrl.SetPageInput(raw)
		if ctrl.GoToPage(raw) {
			if err := ctrl.Wait(ctx); err != nil {
				c.Status(http.StatusRequestTimeout)
				return
			}
		}
	}

	h.saveQuery(c, ctrl.Query())

	view := newPageView(h, c, ctrl.State(), ctrl.Window(maxVisibleFor(c.Request.UserAgent())), notes.all())
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.srv.tmpl.ExecuteTemplate(c.Writer, "list.html", view); err != nil {
		h.srv.logger.Error().Err(err).Str("screen", h.screen.Name).Msg("Failed to render screen")
	}
}

// export downloads the rows of the requested page as CSV. Only that one page
// is fetched.
func (h *screenHandler[T]) export(c *gin.Context) {
	ctx := c.Request.Context()

	ctrl := h.newController(fetch.NopNotifier())
	defer ctrl.Close()

	ctrl.Restore(h.resolveQuery(c))
	if err := ctrl.Wait(ctx); err != nil {
		c.Status(http.StatusRequestTimeout)
		return
	}

	if st := ctrl.State(); st.Status == fetch.StatusFailure {
		c.JSON(http.StatusBadGateway, gin.H{"error": st.Message})
		return
	}

	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", `attachment; filename="`+h.screen.ExportFile+`"`)
	c.Status(http.StatusOK)
	if err := ctrl.Export(c.Writer); err != nil {
		h.srv.logger.Warn().Err(err).Str("screen", h.screen.Name).Msg("Export write failed")
	}
}

// resolveQuery reads the list query from the URL. A request without any list
// parameters restores the session's last query for the screen.
func (h *screenHandler[T]) resolveQuery(c *gin.Context) query.ListQuery {
	values := c.Request.URL.Query()
	keys := h.screen.FilterKeys()

	if query.HasListParams(values, keys) || values.Has(paramClear) {
		return query.FromValues(values, keys)
	}

	key, ok := h.sessionKey(c)
	if !ok {
		return query.New()
	}

	q, err := h.srv.store.Load(c.Request.Context(), key)
	switch {
	case err == nil:
		return q
	case errors.Is(err, session.ErrNotFound):
		return query.New()
	default:
		h.srv.logger.Warn().Err(err).Str("screen", h.screen.Name).Msg("Session query restore failed")
		return query.New()
	}
}

func (h *screenHandler[T]) saveQuery(c *gin.Context, q query.ListQuery) {
	key, ok := h.sessionKey(c)
	if !ok {
		return
	}

	// The query is saved even when the client has gone away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), sessionSaveTimeout)
	defer cancel()

	if err := h.srv.store.Save(ctx, key, q); err != nil {
		h.srv.logger.Warn().Err(err).Str("screen", h.screen.Name).Msg("Session query save failed")
	}
}

func (h *screenHandler[T]) sessionKey(c *gin.Context) (session.Key, bool) {
	if h.srv.store == nil {
		return session.Key{}, false
	}
	id := c.GetString(sessionIDKey)
	if id == "" {
		return session.Key{}, false
	}
	return session.Key{SessionID: id, Screen: h.screen.Name}, true
}

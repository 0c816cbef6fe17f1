// Package web serves the admin dashboard: server-rendered Orders and Users
// screens backed by grid controllers, their CSV exports, and the
// health, readiness and metrics endpoints.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/admin"
	"github.com/Sternrassler/shop-admin/pkg/fetch"
	"github.com/Sternrassler/shop-admin/pkg/logging"
	"github.com/Sternrassler/shop-admin/pkg/metrics"
	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/Sternrassler/shop-admin/pkg/session"
	"github.com/Sternrassler/shop-admin/pkg/theme"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// QueryStore persists the last list query per session and screen.
// *session.Store satisfies it.
type QueryStore interface {
	Load(ctx context.Context, key session.Key) (query.ListQuery, error)
	Save(ctx context.Context, key session.Key, q query.ListQuery) error
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	// API is the backend client used by the list fetchers.
	API fetch.Getter

	// Store enables session restore when set.
	Store QueryStore

	// Theme supplies the mode for requests without a theme cookie.
	Theme *theme.Provider

	// SessionTTL is the lifetime of the session cookie.
	SessionTTL time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	api        fetch.Getter
	store      QueryStore
	themes     *theme.Provider
	sessionTTL time.Duration
	logger     zerolog.Logger
	tmpl       *template.Template
	router     *gin.Engine

	unsubscribeTheme func()
}

// New builds the router. It panics if the embedded templates do not parse.
func New(opts Options) *Server {
	if opts.Theme == nil {
		opts.Theme = theme.NewProvider(theme.Light)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}

	s := &Server{
		api:        opts.API,
		store:      opts.Store,
		themes:     opts.Theme,
		sessionTTL: opts.SessionTTL,
		logger:     logging.NewLogger("web"),
		tmpl:       template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	s.unsubscribeTheme = s.themes.Subscribe(func(m theme.Mode) {
		s.logger.Info().Str("theme", string(m)).Msg("Default theme changed")
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(s.sessionCookie())
	router.Use(s.themeCookie())

	router.GET("/health", healthHandler)
	router.GET("/ready", s.readyHandler)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Gatherer, promhttp.HandlerOpts{})))
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/orders")
	})

	group := router.Group("/admin")
	mountScreen(s, group, "/orders", admin.Orders)
	mountScreen(s, group, "/users", admin.Users)
	group.POST("/theme", s.setTheme)
	group.POST("/theme/default", s.setDefaultTheme)

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("Starting dashboard server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down dashboard server")
	s.unsubscribeTheme()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) readyHandler(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "session_store": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Session store not reachable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "session_store": "ok"})
}

// setTheme stores the caller's mode in a cookie and goes back.
func (s *Server) setTheme(c *gin.Context) {
	mode, err := theme.ParseMode(c.PostForm("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(theme.CookieName, string(mode), int((365 * 24 * time.Hour).Seconds()), "/", "", false, false)
	c.Redirect(http.StatusSeeOther, backURL(c))
}

// setDefaultTheme changes the mode used for requests without a cookie.
func (s *Server) setDefaultTheme(c *gin.Context) {
	mode, err := theme.ParseMode(c.PostForm("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.themes.Set(mode)
	c.JSON(http.StatusOK, gin.H{"theme": mode})
}

// backURL returns the local page the request came from, or the orders screen.
func backURL(c *gin.Context) string {
	if to := c.PostForm("return_to"); len(to) > 1 && to[0] == '/' && to[1] != '/' {
		return to
	}
	return "/admin/orders"
}

package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/pagination"
	"github.com/Sternrassler/shop-admin/pkg/session"
	"github.com/Sternrassler/shop-admin/pkg/theme"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// SessionCookie holds the dashboard session ID.
const SessionCookie = "shop_admin_session"

const sessionIDKey = "session_id"

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shop_admin_http_requests_total",
	Help: "Total dashboard HTTP requests by route and status",
}, []string{"route", "status"})

// requestLogger logs one line per request and counts it.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status_code", status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

// sessionCookie makes sure every request carries a session ID.
func (s *Server) sessionCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || !session.ValidID(id) {
			id = session.NewID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, int(s.sessionTTL.Seconds()), "/", "", false, true)
		}
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// themeCookie puts the caller's theme mode into the request context.
func (s *Server) themeCookie() gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := s.themes.Mode()
		if raw, err := c.Cookie(theme.CookieName); err == nil {
			if m, err := theme.ParseMode(raw); err == nil {
				mode = m
			}
		}
		c.Request = c.Request.WithContext(theme.WithMode(c.Request.Context(), mode))
		c.Next()
	}
}

// narrowAgents are user agent markers of small screens.
var narrowAgents = []string{"Mobi", "Android", "iPhone", "iPod"}

// maxVisibleFor returns how many page buttons fit the caller's screen.
func maxVisibleFor(userAgent string) int {
	for _, marker := range narrowAgents {
		if strings.Contains(userAgent, marker) {
			return pagination.MaxVisibleNarrow
		}
	}
	return pagination.MaxVisibleWide
}

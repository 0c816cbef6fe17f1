// Package metrics documents the Prometheus metrics exported by shop-admin.
// All metrics are defined in their respective packages (client, fetch, grid,
// export, session, web) and registered via promauto, which keeps the
// packages free of a shared dependency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registerer all shop-admin metrics are registered with.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer the /metrics endpoint serves.
var Gatherer = prometheus.DefaultGatherer

// Names lists every metric family shop-admin registers.
var Names = []string{
	"shop_admin_api_requests_total",
	"shop_admin_api_request_duration_seconds",
	"shop_admin_api_errors_total",
	"shop_admin_api_retries_total",
	"shop_admin_api_retry_exhausted_total",
	"shop_admin_fetch_total",
	"shop_admin_fetch_duration_seconds",
	"shop_admin_grid_fetches_issued_total",
	"shop_admin_grid_stale_results_total",
	"shop_admin_exports_total",
	"shop_admin_export_rows_total",
	"shop_admin_session_store_operations_total",
	"shop_admin_http_requests_total",
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - shop_admin_api_requests_total{endpoint, status} (Counter): Backend requests by endpoint and HTTP status
//   - shop_admin_api_request_duration_seconds{endpoint} (Histogram): Backend request duration
//   - shop_admin_api_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Retry Metrics (pkg/client):
//   - shop_admin_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - shop_admin_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max attempts
//
// Fetch Metrics (pkg/fetch):
//   - shop_admin_fetch_total{screen, outcome} (Counter): List fetches by outcome (success, empty, failure, cancelled)
//   - shop_admin_fetch_duration_seconds{screen} (Histogram): List fetch duration
//
// Grid Metrics (pkg/grid):
//   - shop_admin_grid_fetches_issued_total{screen} (Counter): Fetches issued by controllers
//   - shop_admin_grid_stale_results_total{screen} (Counter): Superseded results discarded
//
// Export Metrics (pkg/export):
//   - shop_admin_exports_total{screen} (Counter): CSV exports
//   - shop_admin_export_rows_total{screen} (Counter): Rows written to exports
//
// Session Metrics (pkg/session):
//   - shop_admin_session_store_operations_total{operation, result} (Counter): Redis load/save/delete results
//
// Dashboard Metrics (internal/web):
//   - shop_admin_http_requests_total{route, status} (Counter): Dashboard requests by route and status
//
// Example Prometheus Queries:
//
//   # Failed list fetches per screen
//   sum by (screen) (rate(shop_admin_fetch_total{outcome="failure"}[5m]))
//
//   # Share of fetch results discarded as stale
//   rate(shop_admin_grid_stale_results_total[5m]) / rate(shop_admin_grid_fetches_issued_total[5m])
//
//   # P95 backend latency
//   histogram_quantile(0.95, rate(shop_admin_api_request_duration_seconds_bucket[5m]))

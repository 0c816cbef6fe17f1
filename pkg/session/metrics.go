package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOps tracks store operations by operation and result.
	StoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_admin_session_store_operations_total",
			Help: "Total session store operations by operation and result",
		},
		[]string{"operation", "result"}, // load/save/delete, ok/miss/error
	)
)

// Package metrics defines and registers all custom Prometheus metrics for
// the music-catalog API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed through the /metrics endpoint wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts successful logins (sessions opened).
var LoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins.",
	},
)

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - class: "invalid" (bad signature/malformed), "revoked" (no or stale
//     session), "store_unavailable" (session store unreachable)
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts, by failure class.",
	},
	[]string{"class"},
)

// TokenRefreshesTotal counts expired tokens transparently replaced during
// authentication.
var TokenRefreshesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of tokens transparently reissued after expiry.",
	},
)

// LogoutsTotal counts explicit session closures.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of explicit logouts.",
	},
)

// ── Asset metrics ─────────────────────────────────────────────────────────────

// AssetCleanupsTotal counts asynchronous asset-folder cleanups.
// Label:
//   - result: "ok" or "error"
var AssetCleanupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_cleanups_total",
		Help:      "Total number of asset folder cleanups, by result.",
	},
	[]string{"result"},
)

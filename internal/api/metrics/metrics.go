// Package metrics defines and registers all custom Prometheus metrics for
// the Mandi-Link session service. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics are registered with the default registry at import time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mandilink"

// ── Auth flow metrics ─────────────────────────────────────────────────────────

// LoginsTotal counts successful logins.
// Label:
//   - role: the session's role (trader, producer, consumer)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins, by role.",
	},
	[]string{"role"},
)

// SignupsTotal counts successful signups.
// Label:
//   - role: the role fixed at signup
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of successful signups, by role.",
	},
	[]string{"role"},
)

// LogoutsTotal counts completed logouts. Logout always completes locally,
// so there is no failure label.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of completed logouts.",
	},
)

// AuthErrorsTotal counts failed login/signup attempts.
// Label:
//   - reason: short failure cause (e.g. "auth_failed", "role_mismatch")
var AuthErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_errors_total",
		Help:      "Total number of failed authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// BookkeepingFailuresTotal counts failed best-effort side effects after a
// session is already committed (or while it is being torn down). These
// failures are logged, never surfaced, and never rolled back — this counter
// is the audit signal for the accepted presence/online-flag drift.
// Label:
//   - op: which side effect failed ("online_status", "presence_add",
//     "presence_remove", "session_end", "local_save", "local_clear")
var BookkeepingFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookkeeping_failures_total",
		Help:      "Total number of failed best-effort presence/status side effects, by operation.",
	},
	[]string{"op"},
)

// SessionRestoresTotal counts restore-on-start attempts.
// Label:
//   - outcome: "restored" (durable record found and trusted), "empty"
//     (no record), or "error" (record unreadable)
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restore attempts at process start, by outcome.",
	},
	[]string{"outcome"},
)

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDecisionsTotal counts access gate verdicts on gated routes.
// Label:
//   - outcome: "allow", "deny", or "pending"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of access gate decisions, by outcome.",
	},
	[]string{"outcome"},
)

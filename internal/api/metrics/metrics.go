// Package metrics defines and registers all custom Prometheus metrics for
// the membership API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "membership"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - outcome: "ok", "invalid_credentials", "pending", "rejected", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PolicyDenialsTotal counts authorization denials.
// Labels:
//   - action: the policy action that was denied (e.g. "resource:create")
//   - reason: "role", "not_owner", "self_action"
var PolicyDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_denials_total",
		Help:      "Total number of authorization denials, by action and reason.",
	},
	[]string{"action", "reason"},
)

// VotesToggledTotal counts vote toggles by resulting state.
// Label:
//   - result: "on" (vote created) or "off" (vote retracted)
var VotesToggledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_toggled_total",
		Help:      "Total number of vote toggles, by resulting state (on/off).",
	},
	[]string{"result"},
)

// CounterReconcilesTotal counts background counter reconciliations.
// Label:
//   - result: "ok" or "error"
var CounterReconcilesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "counter_reconciles_total",
		Help:      "Total number of denormalized-counter reconciliations, by result.",
	},
	[]string{"result"},
)

// ReconcileQueueDepth tracks the number of recount requests waiting in each
// reconciler worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ReconcileQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconcile_queue_depth",
		Help:      "Current number of recount requests pending per reconciler worker.",
	},
	[]string{"worker_id"},
)

// RevokedSessionHitsTotal counts requests rejected by the revocation list.
var RevokedSessionHitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revoked_session_hits_total",
		Help:      "Total number of requests carrying a revoked session token.",
	},
)

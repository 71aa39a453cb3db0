// Package metrics defines and registers all custom Prometheus metrics for the
// user registry. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_registry"

// Result label values.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultRejected = "rejected"
)

// ── Registry metrics ──────────────────────────────────────────────────────────

// UsersCreatedTotal counts successfully created users.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// UserOperationsTotal counts registry operations.
// Labels:
//   - operation: create, get, list, update, delete
//   - result: ok, rejected (domain error such as not found), error
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of registry operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthenticationsTotal counts authentication attempts.
// Label:
//   - result: "success", "failure" or "locked"
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of authentication attempts, by result.",
	},
	[]string{"result"},
)

// UsersLive tracks the number of stored users. It is loaded from the store at
// startup and then follows creates and deletes.
var UsersLive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "users_live",
		Help:      "Number of users currently stored.",
	},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because a worker
// channel was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a full worker queue.",
	},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

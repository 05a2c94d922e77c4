// Package metrics defines the custom Prometheus metrics of the back-office
// API. HTTP request metrics come from the echoprometheus middleware; the
// collectors here cover record mutations and the change feed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsMutatedTotal counts successful mutations.
// Labels:
//   - resource: the collection name (e.g. "jobs")
//   - op: "created", "updated" or "deleted"
var RecordsMutatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_mutated_total",
		Help:      "Total number of records created, updated or deleted.",
	},
	[]string{"resource", "op"},
)

// ValidationErrorsTotal counts rejected writes, labelled by the failing rule.
var ValidationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_errors_total",
		Help:      "Total number of writes rejected by validation.",
	},
	[]string{"resource", "rule"},
)

// IdempotentReplaysTotal counts creates answered from an earlier idempotency key.
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests replayed through an idempotency key.",
	},
	[]string{"resource"},
)

// ListResultSize observes how many items a list page returned.
var ListResultSize = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "list_result_size",
		Help:      "Number of items returned per list request.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
	[]string{"resource"},
)

// ── Change feed metrics ───────────────────────────────────────────────────────

// ChangeEventsQueueDepth tracks pending events per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ChangeEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "change_events_queue_depth",
		Help:      "Current number of change events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ChangeEventsFailedTotal counts change events that could not be recorded.
var ChangeEventsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_failed_total",
		Help:      "Total number of change events that failed to be recorded.",
	},
	[]string{"resource"},
)

// ChangeEventDuration measures how long recording one change event takes.
var ChangeEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "change_event_duration_seconds",
		Help:      "Duration of change event recording from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

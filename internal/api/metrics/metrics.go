// Package metrics defines the domain counters of the marketplace API. HTTP
// request metrics come from the echoprometheus middleware; the counters here
// track business outcomes that a status code alone does not reveal.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Identity ──────────────────────────────────────────────────────────────────

// AuthEventsTotal counts registration and login attempts.
// Labels:
//   - event: "register" or "login"
//   - result: "success" or "failure"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"event", "result"},
)

// ── Bookings ──────────────────────────────────────────────────────────────────

// BookingsCreatedTotal counts bookings persisted by POST /bookings. Replays of
// an idempotency key are not counted.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// IdempotentReplaysTotal counts booking requests answered from an earlier
// Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_idempotent_replays_total",
		Help:      "Total number of booking requests served from a stored idempotency key.",
	},
)

// BookingTransitionsTotal counts applied status changes.
// Label:
//   - status: the status the booking moved to
var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status changes, by target status.",
	},
	[]string{"status"},
)

// ── Reviews ───────────────────────────────────────────────────────────────────

// ReviewsCreatedTotal counts submitted reviews.
// Label:
//   - rating: star value "1" to "5"
var ReviewsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews submitted, by star rating.",
	},
	[]string{"rating"},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of booking events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWritesTotal counts audit trail writes.
// Label:
//   - result: "written", "inline" (queue full or stopped) or "failed"
var AuditWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_writes_total",
		Help:      "Total number of booking event writes, by outcome.",
	},
	[]string{"result"},
)

// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed through the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartMutationsTotal counts successful cart mutations.
// Label:
//   - op: "upsert" or "remove"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations, by operation.",
	},
	[]string{"op"},
)

// ── Checkout metrics ──────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders persisted by checkout.
// Label:
//   - currency: the currency the client paid in (e.g. "CAD")
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created at checkout, by currency.",
	},
	[]string{"currency"},
)

// CheckoutFailuresTotal counts checkouts that did not produce an order.
// Label:
//   - reason: "cart_empty", "user_not_found", "order_insert", "cart_clear"
var CheckoutFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_failures_total",
		Help:      "Total number of failed checkouts, by reason.",
	},
	[]string{"reason"},
)

// CheckoutInconsistentTotal counts checkouts whose order was persisted but
// whose cart was not cleared afterwards.
var CheckoutInconsistentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_inconsistent_total",
		Help:      "Orders persisted without the matching cart clear and history append.",
	},
)

// CheckoutTotalMismatchTotal counts checkouts in the base currency whose
// client-supplied total differs from the catalog subtotal.
var CheckoutTotalMismatchTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_total_mismatch_total",
		Help:      "Base-currency checkouts whose client total differs from the catalog subtotal.",
	},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrderStatusTransitionsTotal counts applied status transitions.
// Labels:
//   - from, to: order statuses
var OrderStatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_transitions_total",
		Help:      "Total number of order status transitions applied.",
	},
	[]string{"from", "to"},
)

// OrderEventsQueueDepth tracks the number of audit events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var OrderEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "order_events_queue_depth",
		Help:      "Current number of order events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// OrderEventsDroppedTotal counts audit events dropped because a worker channel was full.
var OrderEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_dropped_total",
		Help:      "Total number of order audit events dropped on a full queue.",
	},
)

// OrderEventProcessingDuration measures how long persisting one audit event takes.
// Label:
//   - result: "ok" or "error"
var OrderEventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_event_processing_duration_seconds",
		Help:      "Duration of order audit event persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Traffic metrics ───────────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by a rate-limit policy.
// Label:
//   - policy: "global" or "auth"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by rate limiting, by policy.",
	},
	[]string{"policy"},
)

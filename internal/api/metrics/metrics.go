// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at init time via
// promauto; the /metrics endpoint exposes them through echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// GamesSubmittedTotal counts listings submitted by developers.
var GamesSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "games_submitted_total",
		Help:      "Total number of game listings submitted for review.",
	},
)

// ReviewDecisionsTotal counts moderation decisions on pending listings.
// Label:
//   - decision: "approved" or "rejected"
var ReviewDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "review_decisions_total",
		Help:      "Total number of listing moderation decisions, by outcome.",
	},
	[]string{"decision"},
)

// ── Commerce metrics ──────────────────────────────────────────────────────────

// PurchasesTotal counts completed checkouts.
var PurchasesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of completed checkouts.",
	},
)

// EntitlementsCreatedTotal counts entitlements granted.
// Label:
//   - kind: "purchase" or "free_claim"
var EntitlementsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entitlements_created_total",
		Help:      "Total number of entitlements granted, by origin.",
	},
	[]string{"kind"},
)

// DownloadsTotal counts authorized downloads.
// Label:
//   - kind: "file" (hosted build) or "link" (external URL)
var DownloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloads_total",
		Help:      "Total number of authorized downloads, by delivery kind.",
	},
	[]string{"kind"},
)

// ── Review metrics ────────────────────────────────────────────────────────────

// ReviewsPostedTotal counts reviews posted by buyers.
// Label:
//   - rating: the star rating as a string ("1" through "5")
var ReviewsPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_posted_total",
		Help:      "Total number of reviews posted, by rating.",
	},
	[]string{"rating"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsSentTotal counts dispatched notifications.
// Labels:
//   - template: the notification template name
//   - result: "sent" or "failed"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notification deliveries attempted, by template and result.",
	},
	[]string{"template", "result"},
)

// NotificationQueueDepth tracks pending notifications in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

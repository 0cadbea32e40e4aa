// Package metrics defines and registers all custom Prometheus metrics for the
// matrimony API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matrimony"

// ── Unlock metrics ────────────────────────────────────────────────────────────

// UnlocksTotal counts granted unlock requests.
// Labels:
//   - kind: "biodata" or "contact"
//   - charged: "true" for first-time paid unlocks, "false" for idempotent repeats
//     and owner views
var UnlocksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unlocks_total",
		Help:      "Total number of granted unlock requests, by kind and whether a credit was charged.",
	},
	[]string{"kind", "charged"},
)

// UnlockDeniedTotal counts denied unlock requests.
// Label:
//   - reason: the denial reason (e.g. "no_membership", "no_credits_remaining")
var UnlockDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unlock_denied_total",
		Help:      "Total number of denied unlock requests, by reason.",
	},
	[]string{"reason"},
)

// CreditsSpentTotal counts consumed connection credits across all users.
var CreditsSpentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credits_spent_total",
		Help:      "Total number of connection credits consumed.",
	},
)

// ── Membership metrics ────────────────────────────────────────────────────────

// MembershipPurchasesTotal counts membership purchases and upgrades.
// Label:
//   - tier: "silver" or "gold"
var MembershipPurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "membership_purchases_total",
		Help:      "Total number of membership purchases, by tier.",
	},
	[]string{"tier"},
)

// ── Profile metrics ───────────────────────────────────────────────────────────

// BiodatasCreatedTotal counts newly created biodatas.
// Label:
//   - kind: "groom" or "bride"
var BiodatasCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "biodatas_created_total",
		Help:      "Total number of biodatas created, by kind.",
	},
	[]string{"kind"},
)

// ViewEventsDroppedTotal counts profile-view events dropped because a stats
// worker's buffer was full.
var ViewEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_events_dropped_total",
		Help:      "Total number of profile-view events dropped under load.",
	},
)

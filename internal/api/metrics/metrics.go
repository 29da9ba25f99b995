// Package metrics defines and registers all custom Prometheus metrics for
// the afiya health-system API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at init time via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "afiya"

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentsTotal counts successful enroll calls.
// Label:
//   - result: "added" (membership grew) or "duplicate" (already enrolled, no-op)
var EnrollmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_total",
		Help:      "Total number of successful enroll operations, by result.",
	},
	[]string{"result"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// ProgramsCreatedTotal counts newly created health programs.
var ProgramsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "programs_created_total",
		Help:      "Total number of health programs created.",
	},
)

// ClientsCreatedTotal counts newly registered clients.
var ClientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of clients created.",
	},
)

// ── Search metrics ────────────────────────────────────────────────────────────

// SearchesTotal counts client name searches.
// Label:
//   - query: "empty" (match-all) or "filtered"
var SearchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of client searches, by query kind.",
	},
	[]string{"query"},
)

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

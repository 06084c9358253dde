// Package metrics defines and registers the custom Prometheus metrics for the
// health-tracking API. It is the single source of truth for metric names,
// labels, and help strings. Registration happens at import time via promauto;
// the router exposes everything on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "healthtrack"

// RegistrationsTotal counts completed registrations.
// Label:
//   - role: "athlete" or "professional"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of completed user registrations, by role.",
	},
	[]string{"role"},
)

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

// MeasurementsCreatedTotal counts stored measurement records.
// Label:
//   - kind: "health", "performance", or "anthropometric"
var MeasurementsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "measurements_created_total",
		Help:      "Total number of measurement records created, by kind.",
	},
	[]string{"kind"},
)

// ReportsSharedTotal counts share operations that assigned or re-activated an
// access code.
var ReportsSharedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_shared_total",
		Help:      "Total number of reports marked shared.",
	},
)

// SharedReportViewsTotal counts public access-code fetches.
// Label:
//   - result: "hit" (shared report served) or "miss" (unknown or unshared code)
var SharedReportViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shared_report_views_total",
		Help:      "Total number of shared-report fetches by access code, by result.",
	},
	[]string{"result"},
)

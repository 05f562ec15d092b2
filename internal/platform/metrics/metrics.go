// Package metrics holds the Prometheus collectors for the workflow, the ledger and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "iwa"

// CreditTransitions counts committed credit request transitions.
var CreditTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "credit_requests",
	Name:      "transitions_total",
	Help:      "Committed credit request transitions by event and target status.",
}, []string{"event", "to"})

// CreditRequestsCreated counts new credit requests by type and initial status.
var CreditRequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "credit_requests",
	Name:      "created_total",
	Help:      "Credit requests created by type and initial status.",
}, []string{"type", "status"})

// LedgerPostings counts wallet transactions appended.
var LedgerPostings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "wallet",
	Name:      "postings_total",
	Help:      "Wallet transactions appended by type and currency.",
}, []string{"type", "currency"})

// LedgerRejections counts postings refused by the ledger (insufficient balance, already redeemed).
var LedgerRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "wallet",
	Name:      "rejections_total",
	Help:      "Wallet postings refused by the ledger.",
}, []string{"reason"})

// RedemptionTransitions counts redemption status changes.
var RedemptionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "redemptions",
	Name:      "transitions_total",
	Help:      "Redemption requests entering each status.",
}, []string{"status"})

// CollaboratorFailures counts best-effort collaborator failures that were swallowed.
var CollaboratorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "collaborators",
	Name:      "failures_total",
	Help:      "Failures of notification, email and document collaborators.",
}, []string{"collaborator"})

// HTTPRequestDuration observes request latency by route.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route, method and status code.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method", "status"})

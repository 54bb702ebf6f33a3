package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ClosingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoice_closing_runs_total",
			Help: "Closing job runs by outcome",
		},
		[]string{"outcome"},
	)

	InvoicesClosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoices_closed_total",
			Help: "Ledger rows written by the closing job",
		},
	)

	ChargesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_charges_created_total",
			Help: "Charges created at the billing provider by billing type",
		},
		[]string{"billing_type"},
	)
)

package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "availability_quotes_total",
		Help: "Total number of availability quotes by outcome",
	}, []string{"outcome"})

	QuoteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "availability_quote_latency_seconds",
		Help:    "Latency of availability quote computation",
		Buckets: prometheus.DefBuckets,
	})

	QuoteBottlenecks = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "availability_quote_bottleneck_components",
		Help:    "Number of bottleneck components per quote",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
	})

	BOMCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bom_cache_lookups_total",
		Help: "BOM cache lookups by result",
	}, []string{"result"})

	CustomersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customers_created_total",
		Help: "Total number of customers created",
	})

	EventsPublishFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_publish_failed_total",
		Help: "Total number of events that could not be published",
	}, []string{"event_type"})

	AuditEntriesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_entries_written_total",
		Help: "Total number of audit entries written by the audit worker",
	}, []string{"event_type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

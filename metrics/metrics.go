// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedback_tool"

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// StoreFailures counts degraded reads, labelled by which query failed.
	StoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_failures_total",
		Help:      "Store queries that failed and were degraded.",
	}, []string{"stage"})

	UnknownCounterparts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unknown_counterparts_total",
		Help:      "Feedback rows whose counterpart profile could not be resolved.",
	})

	ListedEntries = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feedback_list_entries",
		Help:      "Number of entries returned per feedback list.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_submissions_total",
		Help:      "Feedback submissions by result.",
	}, []string{"result"})
)

const (
	StageFeedback = "feedback"
	StageProfiles = "profiles"
	StageDetail   = "detail"
)

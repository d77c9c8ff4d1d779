// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PollsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pollify_polls_created_total",
		Help: "Polls created.",
	})

	PollsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pollify_polls_deleted_total",
		Help: "Polls deleted.",
	})

	VotesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pollify_votes_recorded_total",
		Help: "Counter increments applied, by vote type.",
	}, []string{"type"})

	BlobFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pollify_blob_failures_total",
		Help: "Blob store operations that failed, by operation.",
	}, []string{"op"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pollify_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

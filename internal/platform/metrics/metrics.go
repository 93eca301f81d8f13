// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the prometheus collectors of the widget server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for [WidgetActions].
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)

var (
	// WidgetActions counts dispatched widget events.
	WidgetActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "widget_actions_total",
			Help: "Total number of widget events handled",
		},
		[]string{"module", "action", "outcome"},
	)

	// UpstreamDuration measures calls made to the CMS REST API.
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "CMS upstream request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// SessionsActive tracks live widget sessions held in memory.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "widget_sessions_active",
			Help: "Number of widget sessions held in memory",
		},
	)
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Action records one widget event outcome.
func Action(module, action, outcome string) {
	WidgetActions.WithLabelValues(module, action, outcome).Inc()
}

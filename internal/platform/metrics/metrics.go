// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus registry for the API process.

It exposes HTTP request counters and latency histograms labelled by chi
route pattern, plus an auth outcome counter fed by the auth service.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfoliohub"

// unmatchedRoute labels requests that did not hit a registered route, keeping
// label cardinality bounded.
const unmatchedRoute = "unmatched"

// Registry bundles the collectors exported on /metrics.
type Registry struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec
}

// New builds a registry with the Go runtime and process collectors plus the
// PortfolioHub collectors.
func New() *Registry {
	registry := prometheus.NewRegistry()

	metrics := &Registry{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication events by kind and outcome.",
		}, []string{"event", "outcome"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.requests,
		metrics.duration,
		metrics.authEvents,
	)

	return metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// Gatherer exposes the underlying registry for tests and tooling.
func (metrics *Registry) Gatherer() prometheus.Gatherer {
	return metrics.registry
}

// RecordAuthEvent increments the auth outcome counter, e.g. ("login", "success").
func (metrics *Registry) RecordAuthEvent(event, outcome string) {
	metrics.authEvents.WithLabelValues(event, outcome).Inc()
}

// Middleware records count and latency for every request.
//
// Must be mounted on a chi router so the matched route pattern is available
// once the downstream handler returns.
func (metrics *Registry) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			wrapped := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)

			next.ServeHTTP(wrapped, request)

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := routePattern(request)
			metrics.requests.WithLabelValues(request.Method, route, strconv.Itoa(status)).Inc()
			metrics.duration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
		})
	}
}

func routePattern(request *http.Request) string {
	routeContext := chi.RouteContext(request.Context())
	if routeContext == nil {
		return unmatchedRoute
	}
	if pattern := routeContext.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

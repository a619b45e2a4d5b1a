// Package metrics holds the Prometheus instruments shared across the
// service. All collectors register on the default registry and are
// exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by method, path, and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "precos_http_requests_total",
		Help: "HTTP requests by method, path, and status code.",
	}, []string{"method", "path", "status"})

	// CatalogReloads counts load attempts by outcome (success/error).
	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "precos_catalog_reloads_total",
		Help: "Catalog reload attempts by outcome.",
	}, []string{"outcome"})

	// CatalogMaterials tracks the size of the current snapshot.
	CatalogMaterials = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "precos_catalog_materials",
		Help: "Number of materials in the current catalog snapshot.",
	})

	// Quotes counts price queries by outcome.
	Quotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "precos_quotes_total",
		Help: "Price quotes by outcome.",
	}, []string{"outcome"})

	// RateLimited counts requests rejected by the client rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "precos_rate_limited_total",
		Help: "Requests rejected by the per-client rate limit.",
	})
)

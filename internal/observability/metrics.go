package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	solutionsTotal     *prometheus.CounterVec
	solutionCacheTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the solver.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solver_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solver_http_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solver_http_errors_total",
			Help: "Total number of error responses.",
		}, []string{"method", "route", "status"})

		solutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solver_solutions_total",
			Help: "Solutions produced, partitioned by kind.",
		}, []string{"kind"})

		solutionCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solver_solution_cache_total",
			Help: "Solution cache lookups, partitioned by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, solutionsTotal, solutionCacheTotal)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Solutions exposes the counter of solutions by kind.
func Solutions() *prometheus.CounterVec {
	RegisterMetrics()
	return solutionsTotal
}

// SolutionCache exposes the cache hit/miss counter.
func SolutionCache() *prometheus.CounterVec {
	RegisterMetrics()
	return solutionCacheTotal
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}

// Package observability provides logging, metrics, and tracing.
//
// It integrates with OpenTelemetry for tracing and Prometheus for metrics so
// the ranking pipeline and insight enrichment are visible in operation.
package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	InsightRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_requests_total",
			Help: "Total number of insight enrichment calls by outcome",
		},
		[]string{"outcome"},
	)
	InsightRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insight_request_duration_seconds",
			Help:    "Insight enrichment call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
	)

	RankPoolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_pool_size",
			Help:    "Distribution of candidate pool sizes per ranking request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// Scoring outcome distributions
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_score",
			Help:    "Distribution of match scores (integer [0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	SimilarityHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_similarity",
			Help:    "Distribution of cosine similarity (fraction [0,1])",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)
)

// InitMetrics registers all Prometheus collectors once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(InsightRequestsTotal)
	prometheus.MustRegister(InsightRequestDuration)
	prometheus.MustRegister(RankPoolSize)
	prometheus.MustRegister(MatchScoreHistogram)
	prometheus.MustRegister(SimilarityHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveMatch records the resulting score and similarity of one computed match.
func ObserveMatch(score int, similarity float64) {
	if score >= 0 && score <= 100 {
		MatchScoreHistogram.Observe(float64(score))
	}
	if similarity >= 0 && similarity <= 1 {
		SimilarityHistogram.Observe(similarity)
	}
}

// ObserveInsight records one enrichment call outcome and its duration.
func ObserveInsight(outcome string, dur time.Duration) {
	InsightRequestsTotal.WithLabelValues(outcome).Inc()
	InsightRequestDuration.Observe(dur.Seconds())
}

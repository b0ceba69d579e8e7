// Package metrics exposes Prometheus instrumentation for the API and the index build.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinematch_recommend_duration_seconds",
			Help:    "Duration of recommend queries in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	RecommendNotFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinematch_recommend_not_found_total",
			Help: "Total number of recommend queries for titles not in the catalog",
		},
	)

	IndexBuildDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_index_build_seconds",
			Help: "Time taken by the last index build in seconds",
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_vocabulary_terms",
			Help: "Number of terms in the TF-IDF vocabulary",
		},
	)
)

// RecordAPIRequest records one API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommend records a recommend query. notFound marks a miss.
func RecordRecommend(duration time.Duration, notFound bool) {
	RecommendDuration.Observe(duration.Seconds())
	if notFound {
		RecommendNotFound.Inc()
	}
}

// RecordIndexBuild records the result of an index build.
func RecordIndexBuild(movies, vocabulary int, duration time.Duration) {
	CatalogMovies.Set(float64(movies))
	VocabularySize.Set(float64(vocabulary))
	IndexBuildDuration.Set(duration.Seconds())
}

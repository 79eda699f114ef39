// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shelfwise"

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	}, labels)
}

func gaugeVec(subsystem, name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	}, labels)
}

func gauge(subsystem, name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
	})
}

func histogram(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: subsystem, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

// Ranking pipeline. Outcome is ranked or fallback.
var (
	RecommendRequests   = counter("recommend", "requests_total", "Recommendation requests by profile and outcome.", "profile", "outcome")
	RecommendFallbacks  = counter("recommend", "fallbacks_total", "Popular-list responses by profile and cause.", "profile", "cause")
	RecommendCandidates = gaugeVec("recommend", "last_candidates", "Candidates above the inclusion threshold in the latest request.", "profile")
	RecommendDuration   = histogram("recommend", "duration_seconds", "Pipeline latency.",
		[]float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}, "profile")
	RecommendReturned = histogram("recommend", "returned_items", "Items per response.",
		[]float64{0, 1, 5, 10, 15, 25, 50, 100}, "profile")
)

// Artifacts and the search index built from them.
var (
	ArtifactLoads        = counter("artifacts", "loads_total", "Artifact load attempts by source and result.", "source", "result")
	ArtifactLoadDuration = histogram("artifacts", "load_duration_seconds", "Artifact load latency.", prometheus.DefBuckets, "source")
	ArtifactBooks        = gauge("artifacts", "books", "Books in the served index.")
	ArtifactMatrixLoaded = gauge("artifacts", "matrix_loaded", "1 when the served index has a similarity matrix.")
	ArtifactLastSuccess  = gauge("artifacts", "last_success_timestamp_seconds", "Unix time of the last successful load.")

	SearchIndexDocuments = gauge("search", "index_documents", "Books in the catalog search index.")
	SearchQueries        = counter("search", "queries_total", "Catalog searches by result (hit, miss, error).", "result")
)

// User-data store.
var (
	DBQueryDuration = histogram("store", "query_duration_seconds", "Store call latency.", prometheus.DefBuckets, "backend", "operation")
	DBQueryErrors   = counter("store", "query_errors_total", "Failed store calls.", "backend", "operation")
)

// HTTP edge.
var (
	APIRequestsTotal   = counter("http", "requests_total", "Requests by method, route and status.", "method", "endpoint", "status_code")
	APIRequestDuration = histogram("http", "request_duration_seconds", "Request latency by route.",
		[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}, "method", "endpoint")
	APIActiveRequests = gauge("http", "in_flight_requests", "Requests being served.")
	APIRateLimitHits  = counter("http", "rate_limited_total", "Requests rejected by the rate limiter.", "endpoint")
)

// Circuit breakers around the store. State is 0 closed, 1 half-open, 2 open.
var (
	CircuitBreakerState               = gaugeVec("breaker", "state", "Breaker state.", "name")
	CircuitBreakerRequests            = counter("breaker", "requests_total", "Calls by result (success, failure, rejected).", "name", "result")
	CircuitBreakerConsecutiveFailures = gaugeVec("breaker", "consecutive_failures", "Failures since the last success.", "name")
	CircuitBreakerTransitions         = counter("breaker", "transitions_total", "State changes.", "name", "from_state", "to_state")
)

// AppInfo is always 1; the labels carry the build.
var AppInfo = gaugeVec("", "build_info", "Build information.", "version", "go_version")

// RecordRecommendation records one request. An empty cause means ranked.
func RecordRecommendation(profile, cause string, candidates, returned int, duration time.Duration) {
	outcome := "ranked"
	if cause != "" {
		outcome = "fallback"
		RecommendFallbacks.WithLabelValues(profile, cause).Inc()
	}
	RecommendRequests.WithLabelValues(profile, outcome).Inc()
	RecommendDuration.WithLabelValues(profile).Observe(duration.Seconds())
	RecommendCandidates.WithLabelValues(profile).Set(float64(candidates))
	RecommendReturned.WithLabelValues(profile).Observe(float64(returned))
}

// RecommendObserver plugs the ranking engines into these metrics.
type RecommendObserver struct{}

// ObserveRecommendation implements recommend.Observer.
func (RecommendObserver) ObserveRecommendation(profile, cause string, candidates, returned int, latency time.Duration) {
	RecordRecommendation(profile, cause, candidates, returned, latency)
}

// RecordArtifactLoad records a load attempt from source.
func RecordArtifactLoad(source string, duration time.Duration, err error) {
	ArtifactLoads.WithLabelValues(source, result(err, "success", "failure")).Inc()
	ArtifactLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// SetActiveIndex describes the index now being served.
func SetActiveIndex(books int, hasMatrix bool, loadedAt time.Time) {
	ArtifactBooks.Set(float64(books))
	matrix := 0.0
	if hasMatrix {
		matrix = 1
	}
	ArtifactMatrixLoaded.Set(matrix)
	ArtifactLastSuccess.Set(float64(loadedAt.Unix()))
}

// RecordSearch records a catalog search.
func RecordSearch(hits int, err error) {
	label := "hit"
	switch {
	case err != nil:
		label = "error"
	case hits == 0:
		label = "miss"
	}
	SearchQueries.WithLabelValues(label).Inc()
}

// RecordDBQuery records one store call. Error text is not a label; it would
// make the series unbounded.
func RecordDBQuery(backend, operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordAPIStatus records a served request.
func RecordAPIStatus(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetAppInfo publishes the build information.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}

func result(err error, ok, failed string) string {
	if err != nil {
		return failed
	}
	return ok
}

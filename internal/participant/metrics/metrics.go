// Package metrics provides Prometheus metrics for participant resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all participant lookup metrics.
type Metrics struct {
	// Resolution outcomes
	LookupsTotal        *prometheus.CounterVec   // completed resolutions by match type
	LookupFailuresTotal *prometheus.CounterVec   // aborted resolutions by error code
	LookupDuration      prometheus.Histogram     // end-to-end resolution latency
	StageDuration       *prometheus.HistogramVec // per-stage latency

	// Lookup result cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Directory index
	IndexBuildsTotal   *prometheus.CounterVec
	IndexBuildDuration prometheus.Histogram
	IndexEntries       prometheus.Gauge
	IndexStaleServed   prometheus.Counter

	// Lookup events
	EventsPublishedTotal *prometheus.CounterVec
}

// New creates a new Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg. Tests pass a fresh prometheus.NewRegistry().
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peppol_lookups_total",
			Help: "Total number of completed participant resolutions by match type",
		}, []string{"match_type"}),

		LookupFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peppol_lookup_failures_total",
			Help: "Total number of participant resolutions aborted by infrastructure errors",
		}, []string{"code"}),

		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "peppol_lookup_duration_seconds",
			Help:    "Duration of participant resolutions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "peppol_lookup_stage_duration_seconds",
			Help:    "Duration of individual resolution stages",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"stage"}),

		CacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peppol_cache_hits_total",
			Help: "Total number of cache hits by cache name",
		}, []string{"cache"}),

		CacheMissesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peppol_cache_misses_total",
			Help: "Total number of cache misses by cache name",
		}, []string{"cache"}),

		IndexBuildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peppol_directory_index_builds_total",
			Help: "Total number of directory index rebuilds by result",
		}, []string{"result"}),

		IndexBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "peppol_directory_index_build_duration_seconds",
			Help:    "Duration of directory snapshot fetch and index build",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),

		IndexEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "peppol_directory_index_entries",
			Help: "Number of entries in the current directory index",
		}),

		IndexStaleServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "peppol_directory_index_stale_served_total",
			Help: "Number of times a stale directory index was served",
		}),

		EventsPublishedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peppol_lookup_events_published_total",
			Help: "Total number of lookup events handed to the broker by result",
		}, []string{"result"}),
	}
}

// RecordLookup records a completed resolution.
func (m *Metrics) RecordLookup(matchType string, durationSeconds float64) {
	m.LookupsTotal.WithLabelValues(matchType).Inc()
	m.LookupDuration.Observe(durationSeconds)
}

// RecordLookupFailure records an aborted resolution.
func (m *Metrics) RecordLookupFailure(code string) {
	m.LookupFailuresTotal.WithLabelValues(code).Inc()
}

// ObserveStage records the duration of one resolution stage.
func (m *Metrics) ObserveStage(stage string, durationSeconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordIndexBuild records a directory index rebuild attempt.
func (m *Metrics) RecordIndexBuild(ok bool, durationSeconds float64, entries int) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.IndexBuildsTotal.WithLabelValues(result).Inc()
	m.IndexBuildDuration.Observe(durationSeconds)
	if ok {
		m.IndexEntries.Set(float64(entries))
	}
}

// IncrementStaleServed records that a stale index answered a lookup.
func (m *Metrics) IncrementStaleServed() {
	m.IndexStaleServed.Inc()
}

// RecordEventPublished records the outcome of handing a lookup event to the broker.
func (m *Metrics) RecordEventPublished(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.EventsPublishedTotal.WithLabelValues(result).Inc()
}

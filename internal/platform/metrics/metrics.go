package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process level Prometheus metrics
type Metrics struct {
	BuildInfo        *prometheus.GaugeVec
	DBOpenConns      prometheus.Gauge
	DBInUseConns     prometheus.Gauge
	DBIdleConns      prometheus.Gauge
	DBWaitCount      prometheus.Gauge
	DBWaitDurationMs prometheus.Gauge
}

// New creates and registers all process metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the process metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BuildInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "peppol_build_info",
			Help: "Build information, value is always 1",
		}, []string{"version", "environment"}),
		DBOpenConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "peppol_db_open_connections",
			Help: "Established connections to the participants database",
		}),
		DBInUseConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "peppol_db_in_use_connections",
			Help: "Connections currently in use",
		}),
		DBIdleConns: f.NewGauge(prometheus.GaugeOpts{
			Name: "peppol_db_idle_connections",
			Help: "Idle connections in the pool",
		}),
		DBWaitCount: f.NewGauge(prometheus.GaugeOpts{
			Name: "peppol_db_wait_count",
			Help: "Total connections waited for",
		}),
		DBWaitDurationMs: f.NewGauge(prometheus.GaugeOpts{
			Name: "peppol_db_wait_duration_milliseconds",
			Help: "Total time blocked waiting for a new connection",
		}),
	}
}

// SetBuildInfo publishes the running version.
func (m *Metrics) SetBuildInfo(version, environment string) {
	m.BuildInfo.WithLabelValues(version, environment).Set(1)
}

// RecordDBStats copies a database/sql pool snapshot into the gauges.
func (m *Metrics) RecordDBStats(stats sql.DBStats) {
	m.DBOpenConns.Set(float64(stats.OpenConnections))
	m.DBInUseConns.Set(float64(stats.InUse))
	m.DBIdleConns.Set(float64(stats.Idle))
	m.DBWaitCount.Set(float64(stats.WaitCount))
	m.DBWaitDurationMs.Set(float64(stats.WaitDuration.Milliseconds()))
}

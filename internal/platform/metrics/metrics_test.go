package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDBStats(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.RecordDBStats(sql.DBStats{OpenConnections: 5, InUse: 2, Idle: 3, WaitCount: 7, WaitDuration: 1500 * time.Millisecond})

	assert.Equal(t, 5.0, testutil.ToFloat64(m.DBOpenConns))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DBInUseConns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBIdleConns))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.DBWaitCount))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.DBWaitDurationMs))
}

func TestSetBuildInfo(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.SetBuildInfo("v1.2.3", "test")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BuildInfo.WithLabelValues("v1.2.3", "test")))
}

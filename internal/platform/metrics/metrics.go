package metrics

import (
	"database/sql"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics owns the process registry and the process-wide gauges. Domain
// packages register their own collectors against Registry.
type Metrics struct {
	Registry *prometheus.Registry

	BuildInfo         *prometheus.GaugeVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBWaitCount       prometheus.Gauge
}

// New creates a registry with the Go runtime and process collectors.
func New(version string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &Metrics{
		Registry: reg,
		BuildInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pidstore_build_info",
			Help: "Build information, value is always 1",
		}, []string{"version", "go_version"}),
		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pidstore_db_open_connections",
			Help: "Established connections to the person database",
		}),
		DBInUse: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pidstore_db_in_use_connections",
			Help: "Connections currently executing a statement",
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pidstore_db_wait_count",
			Help: "Total number of connections waited for",
		}),
	}
	m.BuildInfo.WithLabelValues(version, runtime.Version()).Set(1)
	return m
}

// ObserveDBStats copies a database/sql pool snapshot into the gauges.
func (m *Metrics) ObserveDBStats(stats sql.DBStats) {
	m.DBOpenConnections.Set(float64(stats.OpenConnections))
	m.DBInUse.Set(float64(stats.InUse))
	m.DBWaitCount.Set(float64(stats.WaitCount))
}

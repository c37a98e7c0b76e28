package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the bridge's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	MigrationsTotal         *prometheus.CounterVec
	MigrationDuration       *prometheus.HistogramVec
	LegacyAuthAttemptsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		MigrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "migrator_migrations_total",
				Help: "Total number of migration trigger invocations",
			},
			[]string{"flow", "result"},
		),
		MigrationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "migrator_migration_duration_seconds",
				Help:    "Migration trigger handling duration in seconds",
				Buckets: []float64{.025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"flow"},
		),
		LegacyAuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "migrator_legacy_auth_attempts_total",
				Help: "Total number of authentication attempts against the legacy store",
			},
			[]string{"mechanism", "status"},
		),
	}

	registry.MustRegister(
		m.MigrationsTotal,
		m.MigrationDuration,
		m.LegacyAuthAttemptsTotal,
	)

	return m
}

func (m *Metrics) ObserveMigration(flow string, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.MigrationsTotal.WithLabelValues(flow, result).Inc()
	m.MigrationDuration.WithLabelValues(flow).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAuthAttempt(mechanism string, status string) {
	if m == nil {
		return
	}
	m.LegacyAuthAttemptsTotal.WithLabelValues(mechanism, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

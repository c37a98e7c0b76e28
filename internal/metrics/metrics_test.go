package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("should count migrations by flow and result", func(t *testing.T) {
		m := NewMetrics(prometheus.NewRegistry())

		m.ObserveMigration("Authentication", "succeeded", 20*time.Millisecond)
		m.ObserveMigration("Authentication", "succeeded", 30*time.Millisecond)
		m.ObserveMigration("ForgotPassword", "denied", time.Millisecond)

		assert.InDelta(t, 2, testutil.ToFloat64(m.MigrationsTotal.WithLabelValues("Authentication", "succeeded")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.MigrationsTotal.WithLabelValues("ForgotPassword", "denied")), 0)
	})

	t.Run("should count legacy authentication attempts", func(t *testing.T) {
		m := NewMetrics(prometheus.NewRegistry())

		m.ObserveAuthAttempt("admin", "mechanism_unavailable")
		m.ObserveAuthAttempt("direct", "authenticated")

		assert.InDelta(t, 1, testutil.ToFloat64(m.LegacyAuthAttemptsTotal.WithLabelValues("admin", "mechanism_unavailable")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.LegacyAuthAttemptsTotal.WithLabelValues("direct", "authenticated")), 0)
	})

	t.Run("should ignore observations on a nil receiver", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() {
			m.ObserveMigration("Authentication", "failed", time.Second)
			m.ObserveAuthAttempt("admin", "transient")
		})
	})

	t.Run("should expose registered collectors over HTTP", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		m := NewMetrics(registry)
		m.ObserveMigration("Authentication", "succeeded", time.Millisecond)

		server := httptest.NewServer(Handler(registry))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Contains(t, string(body), "migrator_migrations_total")
		assert.Contains(t, string(body), "migrator_migration_duration_seconds")
	})
}

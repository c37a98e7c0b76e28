package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"migrator/internal/activity"
	"migrator/internal/helpers"
	"migrator/internal/metrics"
	"migrator/internal/models"
	"migrator/internal/resolution"
	"migrator/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInvokerSecret = "0123456789abcdef0123456789abcdef"

type staticResolver struct {
	outcome models.MigrationOutcome
}

func (s staticResolver) Resolve(context.Context, string, string, resolution.Mode) models.MigrationOutcome {
	return s.outcome
}

func testApp(outcome models.MigrationOutcome) *App {
	registry := prometheus.NewRegistry()
	return &App{
		Registry:       registry,
		ActivityLogger: activity.NoopClient{},
		Service: services.MigrationService{
			Resolver:       staticResolver{outcome: outcome},
			ActivityLogger: activity.NoopClient{},
			Metrics:        metrics.NewMetrics(registry),
		},
	}
}

func testRouterConfig() models.Configuration {
	return models.Configuration{
		HTTP: models.HTTPConfiguration{
			Port:            8080,
			InvokerSecret:   testInvokerSecret,
			InvokerAudience: "migration:trigger",
		},
	}
}

func TestRouter(t *testing.T) {
	found := models.Found(models.LegacyUserRecord{
		Username:   "jdoe",
		Attributes: []models.Attribute{{Name: "email", Value: "a@x.io"}},
		Status:     models.UserStatusConfirmed,
		Enabled:    true,
	})
	body := `{"flow":"Authentication","login_identifier":"jdoe","password":"pw"}`

	t.Run("should serve health without a token", func(t *testing.T) {
		router := NewRouter(testRouterConfig(), testApp(found))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should expose metrics without a token", func(t *testing.T) {
		router := NewRouter(testRouterConfig(), testApp(found))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should reject migrations without a token", func(t *testing.T) {
		router := NewRouter(testRouterConfig(), testApp(found))
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/migrations", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should migrate with a valid token", func(t *testing.T) {
		router := NewRouter(testRouterConfig(), testApp(found))
		token, err := helpers.NewInvokerToken(testInvokerSecret, "new-pool", "migration:trigger", time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/migrations", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"final_user_status":"Confirmed"`)
	})
}

package core

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"migrator/internal/activity"
	"migrator/internal/authflow"
	"migrator/internal/cache"
	"migrator/internal/configuration"
	h "migrator/internal/helpers"
	"migrator/internal/messaging"
	"migrator/internal/metrics"
	m "migrator/internal/middlewares"
	"migrator/internal/models"
	"migrator/internal/resolution"
	"migrator/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// App holds the long-lived collaborators of one process.
type App struct {
	Service        services.MigrationService
	Registry       *prometheus.Registry
	Cache          cache.ICache
	Publisher      messaging.IPublisher
	ActivityLogger activity.IActivityLogger
}

// NewApp wires the legacy client, the resolution chain and the optional side
// channels. Construction failures are fatal.
func NewApp(ctx context.Context, config models.Configuration) *App {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.NewMetrics(registry)

	client := NewLegacyClient(ctx, &config.Legacy)

	resolver := authflow.NewResolver(client, &config.Legacy)
	resolver.Metrics = appMetrics

	memo := NewMechanismMemo(config)
	if memo != nil {
		resolver.Cache = memo
	}

	app := &App{
		Registry:       registry,
		Cache:          memo,
		Publisher:      NewPublisher(config.Events),
		ActivityLogger: NewActivityLogger(config.Activity),
	}
	app.Service = services.MigrationService{
		Resolver:       &resolution.Chain{Authenticator: resolver, Directory: client},
		Publisher:      app.Publisher,
		ActivityLogger: app.ActivityLogger,
		Metrics:        appMetrics,
	}
	return app
}

func (a *App) Close() {
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			zap.L().Error("Failed to close publisher", zap.Error(err))
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			zap.L().Error("Failed to close cache", zap.Error(err))
		}
	}
	if err := a.ActivityLogger.Close(); err != nil {
		zap.L().Error("Failed to close activity logger", zap.Error(err))
	}
}

// NewRouter builds the HTTP surface of the http profile.
func NewRouter(config models.Configuration, app *App) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(m.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		h.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.Registry))

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(m.Authenticate(config.HTTP.InvokerSecret, config.HTTP.InvokerAudience))

		apiRouter.Mount("/v1/migrations", app.Service.Routes())
		apiRouter.Mount("/v1/activity", app.Service.ActivityRoutes())
	})

	return r
}

func StartHTTPServer(config models.Configuration, app *App) {
	zap.L().Info("HTTP server starting", zap.Int("port", config.HTTP.Port))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.HTTP.Port),
		Handler:      otelhttp.NewHandler(NewRouter(config, app), configuration.AppName),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	err := server.ListenAndServe()
	if err != nil {
		zap.L().Error("Failed to start the app", zap.Error(err))
	}
}

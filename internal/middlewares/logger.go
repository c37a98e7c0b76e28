package middlewares

import (
	"context"
	"net/http"
	"time"

	"migrator/internal/models"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logger attaches a request-scoped zap logger to the context and logs one
// line per request once it completes.
func Logger(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := zap.L().With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		ctx := context.WithValue(r.Context(), models.LoggerKey{}, logger)

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info("Request completed",
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)))
	}
	return http.HandlerFunc(fn)
}

// GetLogger returns the request logger, or the global logger outside a
// request.
func GetLogger(r *http.Request) *zap.Logger {
	if logger, ok := r.Context().Value(models.LoggerKey{}).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}

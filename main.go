package main

import (
	"context"

	"migrator/internal/configuration"
	"migrator/internal/core"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))

	config := configuration.Read()
	core.NewLogger(config.App.LogLevel)

	profile := configuration.GetProfile(config.App.Profile)

	ctx := context.Background()
	tracerProvider, err := core.NewTracerProvider(ctx, config.Tracing)
	if err != nil {
		zap.L().Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer core.ShutdownTracerProvider(ctx, tracerProvider)

	app := core.NewApp(ctx, config)
	defer app.Close()

	if profile.Lambda {
		handler := core.LambdaHandler{Service: app.Service}
		if tracerProvider != nil {
			handler.Flush = tracerProvider.ForceFlush
		}
		lambda.Start(handler.Handle)
		return
	}

	if profile.HTTPServer {
		core.StartHTTPServer(config, app)
	}
}

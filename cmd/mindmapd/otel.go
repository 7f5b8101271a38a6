package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

func traceResource(env string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("mindmapd"),
		attribute.String("env", env),         // DataDog
		attribute.String("environment", env), // Others
	)
}

// setupOTEL installs a global tracer provider when an exporter is
// configured. The returned function flushes and stops it.
func setupOTEL(cctx *cli.Context, logger *slog.Logger) (func(), error) {
	env := cctx.String("env")
	if env == "" {
		env = "dev"
	}

	var tp *tracesdk.TracerProvider
	if cctx.Bool("jaeger") {
		jaegerUrl := "http://localhost:14268/api/traces"
		exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerUrl)))
		if err != nil {
			return nil, err
		}
		tp = tracesdk.NewTracerProvider(
			tracesdk.WithBatcher(exp),
			tracesdk.WithResource(traceResource(env)),
		)
	}

	// Enable OTLP HTTP exporter. For relevant environment variables:
	// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace#readme-environment-variables
	if ep := cctx.String("otel-exporter-otlp-endpoint"); ep != "" {
		logger.Info("setting up trace exporter", "endpoint", ep)
		exp, err := otlptracehttp.New(cctx.Context)
		if err != nil {
			return nil, err
		}
		tp = tracesdk.NewTracerProvider(
			tracesdk.WithBatcher(exp),
			tracesdk.WithResource(traceResource(env)),
		)
	}

	if tp == nil {
		return func() {}, nil
	}
	otel.SetTracerProvider(tp)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("failed to shutdown trace exporter", "err", err)
		}
	}, nil
}

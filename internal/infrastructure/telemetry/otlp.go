// Package telemetry ships traces, metrics and logs to an OTLP collector and
// runs continuous profiling. Every signal is optional and falls back to the
// global no-op implementation when switched off.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const (
	defaultServiceVersion = "1.0.0"
	shutdownTimeout       = 10 * time.Second
)

// Exporter is the collector a signal is sent to and the service it is sent as.
// All three signals share one.
type Exporter struct {
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
}

func exporterFrom(cfg config.TelemetryConfig) Exporter {
	return Exporter{
		Endpoint:    cfg.CollectorEndpoint,
		Insecure:    cfg.Insecure,
		ServiceName: cfg.ServiceName,
	}
}

// resource describes this process to the collector
func (e Exporter) resource() (*resource.Resource, error) {
	version := e.ServiceVersion
	if version == "" {
		version = defaultServiceVersion
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(e.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

// shutdownWithin gives an SDK provider at most shutdownTimeout to flush
func shutdownWithin(ctx context.Context, signal string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return fmt.Errorf("shutdown %s provider: %w", signal, err)
	}
	return nil
}

package telemetry

import (
	"context"
	"fmt"

	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogsConfig struct {
	Enabled bool
	// Level is the lowest level shipped. Local output keeps its own level.
	Level    string
	Exporter Exporter
}

func LogsConfigFrom(cfg config.TelemetryConfig) LogsConfig {
	return LogsConfig{
		Enabled:  cfg.Enabled && cfg.LogsEnabled,
		Level:    cfg.LogsLevel,
		Exporter: exporterFrom(cfg),
	}
}

// LoggerProvider exports zap records as OTLP logs through the otelzap bridge
type LoggerProvider struct {
	sdk      *sdklog.LoggerProvider
	minLevel zapcore.Level
	scope    string
}

func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LoggerProvider, error) {
	lp := &LoggerProvider{scope: cfg.Exporter.ServiceName}
	if !cfg.Enabled {
		logger.Info("Log export disabled")
		return lp, nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	lp.minLevel = level

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.Exporter.Endpoint)}
	if cfg.Exporter.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp log exporter: %w", err)
	}
	res, err := cfg.Exporter.resource()
	if err != nil {
		return nil, err
	}

	lp.sdk = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(lp.sdk)

	logger.Info("Log export enabled",
		zap.String("collector_endpoint", cfg.Exporter.Endpoint),
		zap.Stringer("min_level", level),
	)
	return lp, nil
}

func (lp *LoggerProvider) IsEnabled() bool { return lp.sdk != nil }

// Bridge tees logger into the export pipeline. Without export the logger is
// returned unchanged.
func (lp *LoggerProvider) Bridge(logger *zap.Logger) *zap.Logger {
	if lp.sdk == nil {
		return logger
	}
	exported := &minLevelCore{
		Core: otelzap.NewCore(lp.scope, otelzap.WithLoggerProvider(lp.sdk)),
		min:  lp.minLevel,
	}
	return logger.WithOptions(zap.WrapCore(func(local zapcore.Core) zapcore.Core {
		return zapcore.NewTee(local, exported)
	}))
}

// Shutdown flushes batched records
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if lp.sdk == nil {
		return nil
	}
	return shutdownWithin(ctx, "logger", lp.sdk.Shutdown)
}

// minLevelCore drops entries below min before they reach Core
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}

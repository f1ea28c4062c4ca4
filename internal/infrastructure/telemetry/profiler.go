package telemetry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	ProfilingLabelRoute  = "route"
	ProfilingLabelMethod = "method"

	// longer label values are cut to keep profile cardinality down
	maxLabelValueLength = 128
)

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

type ProfilerConfig struct {
	Enabled bool
	// ServerAddress is the Pyroscope server, e.g. http://pyroscope:4040
	ServerAddress   string
	ApplicationName string
}

func ProfilerConfigFrom(cfg config.TelemetryConfig) ProfilerConfig {
	return ProfilerConfig{
		Enabled:         cfg.ProfilingEnabled,
		ServerAddress:   cfg.ProfilingServerAddress,
		ApplicationName: cfg.ServiceName,
	}
}

// Profiler pushes continuous profiles to Pyroscope. A disabled one does
// nothing.
type Profiler struct {
	pyro    *pyroscope.Profiler
	logger  *zap.Logger
	once    sync.Once
	stopErr error
}

func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	switch {
	case cfg.ServerAddress == "":
		return nil, errors.New("profiler: server address is required")
	case cfg.ApplicationName == "":
		return nil, errors.New("profiler: application name is required")
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil && host != "" {
		tags["hostname"] = host
	}

	pyro, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("profiler: start: %w", err)
	}
	p.pyro = pyro

	logger.Info("Continuous profiling enabled",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application", cfg.ApplicationName))
	return p, nil
}

func (p *Profiler) IsEnabled() bool { return p.pyro != nil }

// Stop flushes pending profiles once. Later calls return the first result.
func (p *Profiler) Stop() error {
	p.once.Do(func() {
		if p.pyro == nil {
			return
		}
		if err := p.pyro.Stop(); err != nil {
			p.stopErr = fmt.Errorf("profiler: stop: %w", err)
		}
	})
	return p.stopErr
}

// EnableSpanProfiles links CPU profiles to trace spans by wrapping the global
// tracer provider. It does nothing while tracing is disabled.
func (tp *TracerProvider) EnableSpanProfiles() {
	if tp.sdk == nil {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.sdk))
	tp.logger.Info("Span profiles enabled")
}

// WithProfilingLabels runs fn with pprof labels attached. Empty keys and
// values are skipped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	var pairs []string
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		v := labels[k]
		if k == "" || v == "" {
			continue
		}
		pairs = append(pairs, strings.ToLower(k), v[:min(len(v), maxLabelValueLength)])
	}
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

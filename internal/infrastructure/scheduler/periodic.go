// Package scheduler runs background maintenance jobs on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidConfig rejects a runner without a task or a positive interval
var ErrInvalidConfig = errors.New("invalid scheduler configuration")

// Task is one unit of periodic work
type Task func(ctx context.Context) error

// PeriodicRunnerConfig holds configuration for a periodic runner
type PeriodicRunnerConfig struct {
	// Name identifies the job in logs
	Name string

	// Interval is the time between runs
	Interval time.Duration

	// Timeout bounds a single run. Zero means the interval.
	Timeout time.Duration

	// RunOnStart runs the task once immediately after Start
	RunOnStart bool
}

// PeriodicRunner invokes a task every interval until stopped.
// Runs never overlap; a run still in progress when the ticker fires skips that tick.
type PeriodicRunner struct {
	config PeriodicRunnerConfig
	task   Task
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastRun   time.Time
	lastErr   error
}

// NewPeriodicRunner creates a new periodic runner
func NewPeriodicRunner(config PeriodicRunnerConfig, task Task, logger *zap.Logger) (*PeriodicRunner, error) {
	if config.Interval <= 0 || task == nil {
		return nil, ErrInvalidConfig
	}
	if config.Timeout <= 0 {
		config.Timeout = config.Interval
	}
	if config.Name == "" {
		config.Name = "periodic"
	}
	return &PeriodicRunner{
		config: config,
		task:   task,
		logger: logger.With(zap.String("job", config.Name)),
	}, nil
}

// Start starts the runner
func (r *PeriodicRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.runLoop(ctx)

	r.logger.Info("Periodic job started", zap.Duration("interval", r.config.Interval))
	return nil
}

// Stop stops the runner and waits for an in-flight run
func (r *PeriodicRunner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Periodic job stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the runner has been started
func (r *PeriodicRunner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}

// LastRun returns when the task last finished and its error
func (r *PeriodicRunner) LastRun() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRun, r.lastErr
}

// RunNow executes the task once on the caller's goroutine
func (r *PeriodicRunner) RunNow(ctx context.Context) error {
	return r.runOnce(ctx)
}

func (r *PeriodicRunner) runLoop(ctx context.Context) {
	defer r.wg.Done()

	if r.config.RunOnStart {
		_ = r.runOnce(ctx)
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = r.runOnce(ctx)
		}
	}
}

func (r *PeriodicRunner) runOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	err := r.task(runCtx)

	r.mu.Lock()
	r.lastRun = time.Now()
	r.lastErr = err
	r.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.logger.Error("Periodic job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return err
	}
	r.logger.Debug("Periodic job finished", zap.Duration("duration", time.Since(start)))
	return nil
}

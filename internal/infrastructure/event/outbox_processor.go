package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// OutboxProcessorConfig controls polling and retention of the outbox
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	MaxRetries       int
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
	// StuckAfter is how long an entry may sit in PROCESSING before the
	// worker that claimed it is presumed dead
	StuckAfter time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		MaxRetries:       shared.DefaultMaxRetries,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
		StuckAfter:       5 * time.Minute,
	}
}

// withDefaults fills every non-positive duration or size. MaxRetries and
// CleanupEnabled are taken as given.
func (c OutboxProcessorConfig) withDefaults() OutboxProcessorConfig {
	d := DefaultOutboxProcessorConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	for _, f := range []struct{ v, def *time.Duration }{
		{&c.PollInterval, &d.PollInterval},
		{&c.CleanupRetention, &d.CleanupRetention},
		{&c.CleanupInterval, &d.CleanupInterval},
		{&c.StuckAfter, &d.StuckAfter},
	} {
		if *f.v <= 0 {
			*f.v = *f.def
		}
	}
	return c
}

// OutboxProcessor polls the outbox and hands decoded events to the bus.
// Failed deliveries are rescheduled with backoff until MaxRetries, after
// which the entry is parked as DEAD for an admin to retry.
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	bus        shared.EventPublisher
	serializer *EventSerializer
	config     OutboxProcessorConfig
	logger     *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewOutboxProcessor(
	repo shared.OutboxRepository,
	bus shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:       repo,
		bus:        bus,
		serializer: serializer,
		config:     config.withDefaults(),
		logger:     logger.Named("outbox"),
	}
}

// Start runs polling, and cleanup when enabled, until ctx ends or Stop is called
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx)

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("max_retries", p.config.MaxRetries),
		zap.Bool("cleanup", p.config.CleanupEnabled),
	)
	return nil
}

// Stop cancels the loop and waits for the current pass to finish
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()

	select {
	case <-p.done:
		p.logger.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) run(ctx context.Context) {
	defer close(p.done)

	poll := time.NewTicker(p.config.PollInterval)
	defer poll.Stop()

	// a nil channel never fires
	var cleanup <-chan time.Time
	if p.config.CleanupEnabled {
		t := time.NewTicker(p.config.CleanupInterval)
		defer t.Stop()
		cleanup = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			p.ProcessOnce(ctx)
		case <-cleanup:
			p.cleanup(ctx)
		}
	}
}

// ProcessOnce runs one polling pass: stale claims are released, then new
// entries and due retries are delivered. It returns how many were sent.
func (p *OutboxProcessor) ProcessOnce(ctx context.Context) int {
	if n, err := p.repo.ReleaseStuck(ctx, time.Now().Add(-p.config.StuckAfter)); err != nil {
		p.logger.Error("failed to release stuck entries", zap.Error(err))
	} else if n > 0 {
		p.logger.Warn("released stuck outbox entries", zap.Int64("count", n))
	}

	sources := []struct {
		name string
		find func() ([]*shared.OutboxEntry, error)
	}{
		{"pending", func() ([]*shared.OutboxEntry, error) {
			return p.repo.FindPending(ctx, p.config.BatchSize)
		}},
		{"retryable", func() ([]*shared.OutboxEntry, error) {
			return p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
		}},
	}

	sent := 0
	for _, src := range sources {
		entries, err := src.find()
		if err != nil {
			p.logger.Error("failed to load outbox entries", zap.String("source", src.name), zap.Error(err))
			return sent
		}
		sent += p.deliverAll(ctx, entries)
	}
	return sent
}

func (p *OutboxProcessor) deliverAll(ctx context.Context, entries []*shared.OutboxEntry) int {
	if len(entries) == 0 {
		return 0
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	// another worker may have won some of these
	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("failed to claim outbox entries", zap.Error(err))
		return 0
	}

	sent := 0
	for _, entry := range claimed {
		if p.deliver(ctx, entry) {
			sent++
		}
	}
	return sent
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	log := p.logger.With(
		zap.Stringer("event_id", entry.EventID),
		zap.String("event_type", entry.EventType),
	)

	event, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = p.bus.Publish(ctx, event)
	}
	if err != nil {
		log.Error("outbox delivery failed", zap.Error(err))
		p.fail(ctx, log, entry, err)
		return false
	}

	entry.MarkSent()
	if err := p.repo.Update(ctx, entry); err != nil {
		log.Error("failed to mark entry as sent", zap.Error(err))
		return false
	}
	log.Debug("outbox entry sent")
	return true
}

func (p *OutboxProcessor) fail(ctx context.Context, log *zap.Logger, entry *shared.OutboxEntry, cause error) {
	if p.config.MaxRetries > 0 {
		entry.MaxRetries = p.config.MaxRetries
	}
	entry.MarkFailed(cause.Error())
	if entry.IsDead() {
		log.Warn("outbox entry moved to dead letter queue",
			zap.String("aggregate_type", entry.AggregateType),
			zap.Stringer("aggregate_id", entry.AggregateID),
			zap.Int("retry_count", entry.RetryCount),
		)
	}
	if err := p.repo.Update(ctx, entry); err != nil {
		log.Error("failed to record delivery failure", zap.Error(err))
	}
}

// cleanup drops SENT entries older than the retention window
func (p *OutboxProcessor) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("outbox cleanup failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("cleaned up sent outbox entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}

package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is where an entry is in its delivery lifecycle:
// PENDING -> PROCESSING -> SENT, or FAILED and back to PROCESSING until the
// retry budget runs out and it becomes DEAD. Only an admin retry revives DEAD.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
	MaxBackoff         = 10 * time.Minute
)

var (
	ErrOutboxNotClaimable = NewDomainError("INVALID_STATE", "can only mark pending or failed entries as processing")
	ErrOutboxNotDead      = NewDomainError("INVALID_STATE", "can only retry dead letter entries")
)

// OutboxEntry is a serialized domain event saved in the same transaction
// as the change that raised it
type OutboxEntry struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (e *OutboxEntry) IsDead() bool { return e.Status == OutboxStatusDead }

// CanRetry is true for a failed entry with attempts left
func (e *OutboxEntry) CanRetry() bool {
	return e.Status == OutboxStatusFailed && e.RetryCount < e.MaxRetries
}

func (e *OutboxEntry) MarkProcessing() error {
	switch e.Status {
	case OutboxStatusPending, OutboxStatusFailed:
		e.moveTo(OutboxStatusProcessing, time.Now())
		return nil
	default:
		return ErrOutboxNotClaimable
	}
}

func (e *OutboxEntry) MarkSent() {
	now := time.Now()
	e.moveTo(OutboxStatusSent, now)
	e.ProcessedAt = &now
	e.LastError = ""
}

// MarkFailed spends one attempt. With attempts left the entry is scheduled
// after RetryBackoff, otherwise it is dead.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	now := time.Now()
	e.RetryCount++
	e.LastError = errMsg

	if e.RetryCount >= e.MaxRetries {
		e.moveTo(OutboxStatusDead, now)
		return
	}
	e.moveTo(OutboxStatusFailed, now)
	next := now.Add(RetryBackoff(e.RetryCount))
	e.NextRetryAt = &next
}

// ResetForRetry returns a dead entry to the queue with a fresh budget
func (e *OutboxEntry) ResetForRetry() error {
	if !e.IsDead() {
		return ErrOutboxNotDead
	}
	e.moveTo(OutboxStatusPending, time.Now())
	e.RetryCount = 0
	e.LastError = ""
	return nil
}

func (e *OutboxEntry) moveTo(status OutboxStatus, at time.Time) {
	e.Status = status
	e.NextRetryAt = nil
	e.UpdatedAt = at
}

// RetryBackoff doubles from DefaultBaseBackoff per failed attempt, up to MaxBackoff
func RetryBackoff(retryCount int) time.Duration {
	if retryCount <= 1 {
		return DefaultBaseBackoff
	}
	// past 2^20 seconds the cap has long applied
	shift := min(retryCount-1, 20)
	return min(DefaultBaseBackoff<<shift, MaxBackoff)
}

// OutboxRepository persists outbox entries
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	FindDead(ctx context.Context, page, pageSize int) ([]*OutboxEntry, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	// MarkProcessing claims ids and returns only the entries this caller won
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	// ReleaseStuck re-queues entries stuck in PROCESSING since before
	ReleaseStuck(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}

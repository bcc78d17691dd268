package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"socialgraph/backend/internal/metrics"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

const (
	maxDeliveryAttempts = 3
	retryBackoff        = 200 * time.Millisecond
)

// Bus fans events out to sinks from a single background goroutine.
// Emit never blocks: when the buffer is full the event is dropped.
type Bus struct {
	ch      chan Event
	sinks   []Sink
	metrics *metrics.Metrics
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewBus creates a bus with the given buffer size
func NewBus(buffer int, m *metrics.Metrics, sinks ...Sink) *Bus {
	return &Bus{
		ch:      make(chan Event, buffer),
		sinks:   sinks,
		metrics: m,
		logger:  logger.For("events"),
		done:    make(chan struct{}),
	}
}

// Emit queues e for delivery, filling in its id and timestamp
func (b *Bus) Emit(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.ch <- e:
	default:
		b.metrics.EventDropped()
		b.logger.Warn("Event buffer full, dropping event",
			zap.String("type", string(e.Type)),
			zap.String("record_id", e.RecordID),
		)
	}
}

// Run delivers events until Close is called, then drains what is left.
// ctx bounds each sink call.
func (b *Bus) Run(ctx context.Context) error {
	defer close(b.done)
	b.logger.Info("Event bus started", zap.Int("sinks", len(b.sinks)))

	for e := range b.ch {
		b.dispatch(ctx, e)
	}

	b.logger.Info("Event bus stopped")
	return nil
}

// Close stops accepting events. Run returns once the buffer is drained.
func (b *Bus) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	b.mu.Unlock()
}

// Wait blocks until Run has returned or ctx expires
func (b *Bus) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) dispatch(ctx context.Context, e Event) {
	for _, sink := range b.sinks {
		err := deliver(ctx, sink, e)
		if err != nil {
			b.metrics.EventDelivered(sink.Name(), metrics.OutcomeError)
			b.logger.Error("Failed to deliver event",
				zap.String("sink", sink.Name()),
				zap.String("type", string(e.Type)),
				zap.String("record_id", e.RecordID),
				zap.Error(err),
			)
			continue
		}
		b.metrics.EventDelivered(sink.Name(), metrics.OutcomeOK)
	}
}

// deliver retries sink errors marked retryable
func deliver(ctx context.Context, sink Sink, e Event) error {
	var err error
	for attempt := 1; attempt <= maxDeliveryAttempts; attempt++ {
		err = sink.Handle(ctx, e)
		if err == nil || !apperrors.IsRetryable(err) {
			return err
		}
		if attempt == maxDeliveryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return err
}

package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/Crucible_Go/internal/logger"
)

type retryItem struct {
	event   Event
	attempt int
	lastErr error
}

// ResilientPublisher wraps a Bus so that a failed publish is retried in the
// background with exponential backoff and dead-lettered once retries run out.
// Callers are never blocked by a failing subscriber.
type ResilientPublisher struct {
	inner      Bus
	maxRetries int
	baseDelay  time.Duration
	deadLetter *DeadLetterWriter

	queue    chan retryItem
	wg       sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(inner Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		deadLetter: dlw,
		queue:      make(chan retryItem, RetryQueueBufferSize),
		stop:       make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// Publish delivers the event. A failure is queued for retry and not returned.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// PublishWithRetry attempts delivery once and hands failures to the retry worker
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	log.Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)

	select {
	case p.queue <- retryItem{event: event, attempt: 1, lastErr: err}:
	default:
		log.Error(LogMsgRetryQueueFull, "event_type", event.Type)
		if dlErr := p.deadLetter.Write(event, 1, err); dlErr != nil {
			log.Error(LogMsgDeadLetterWriteFailed, "error", dlErr)
		}
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stop:
			return
		case item := <-p.queue:
			p.retry(item)
		}
	}
}

func (p *ResilientPublisher) retry(item retryItem) {
	for item.attempt <= p.maxRetries {
		select {
		case <-p.stop:
			p.deadLetterItem(item)
			return
		case <-time.After(CalculateRetryDelay(p.baseDelay, item.attempt)):
		}

		err := p.inner.Publish(context.Background(), item.event)
		if err == nil {
			logger.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempt", item.attempt)
			return
		}
		logger.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempt", item.attempt, "error", err)
		item.lastErr = err
		item.attempt++
	}

	logger.Error(LogMsgEventRetryExhausted, "event_type", item.event.Type)
	p.deadLetterItem(item)
}

func (p *ResilientPublisher) deadLetterItem(item retryItem) {
	if err := p.deadLetter.Write(item.event, item.attempt, item.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "error", err)
	}
}

// Shutdown stops the retry worker. Events still queued are written to the dead-letter file.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stop) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return errors.Join(ctx.Err(), p.deadLetter.Close())
	}

	drained := 0
	for {
		select {
		case item := <-p.queue:
			p.deadLetterItem(item)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return p.deadLetter.Close()
		}
	}
}

// Package publisher fronts an audit sink with sampling, an optional async
// buffer, and a circuit breaker so sink trouble never reaches callers'
// results.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	audit "txguard/pkg/platform/audit"
	"txguard/pkg/platform/audit/worker"
	"txguard/pkg/platform/circuit"
	"txguard/pkg/platform/sentinel"
)

// ErrBufferFull is returned by Emit in async mode when the buffer is full.
// The event is dropped.
var ErrBufferFull = errors.New("audit buffer full")

const defaultWriteTimeout = 5 * time.Second

type Publisher struct {
	sink    audit.Sink
	logger  *slog.Logger
	sampler *Sampler
	metrics *Metrics
	breaker *circuit.Breaker
	now     func() time.Time

	writeTimeout time.Duration
	bufferSize   int

	mu     sync.RWMutex
	closed bool
	inbox  chan audit.Event
	done   chan struct{}
}

type Option func(*Publisher)

// WithAsyncBuffer enables async delivery through a buffered channel of the
// given size. Zero keeps synchronous delivery.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.bufferSize = size
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithSampler(s *Sampler) Option {
	return func(p *Publisher) {
		p.sampler = s
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithBreaker skips sink writes while the breaker is open.
func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.writeTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(sink audit.Sink, opts ...Option) *Publisher {
	p := &Publisher{
		sink:         sink,
		logger:       slog.Default(),
		now:          time.Now,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(guardedSink{p}, p.inbox, p.writeTimeout, nil)
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit stamps and delivers an event. In sync mode the sink error is
// returned; in async mode only ErrBufferFull can be returned. Sampled-out
// events and events skipped by an open breaker return nil.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if p.sampler != nil && !p.sampler.Keep(event) {
		p.metrics.incDropped(dropSampled)
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return sentinel.ErrInvalidState
	}

	if p.inbox == nil {
		return guardedSink{p}.Write(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
		p.metrics.incDropped(dropBufferFull)
		p.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
		return ErrBufferFull
	}
}

// Close stops accepting events and waits for buffered ones to be written.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.inbox != nil {
		close(p.inbox)
	}
	p.mu.Unlock()

	if p.done != nil {
		<-p.done
	}
}

// guardedSink applies the breaker and metrics around the real sink.
type guardedSink struct {
	p *Publisher
}

func (g guardedSink) Write(ctx context.Context, event audit.Event) error {
	p := g.p
	if p.breaker != nil && !p.breaker.Allow() {
		p.metrics.incDropped(dropCircuitOpen)
		return nil
	}

	err := p.sink.Write(ctx, event)
	if err != nil {
		p.metrics.incFailure()
		p.logger.ErrorContext(ctx, "audit sink write failed", "action", event.Action, "error", err)
		if p.breaker != nil {
			if _, change := p.breaker.RecordFailure(); change.Opened {
				p.metrics.setCircuitOpen(true)
				p.logger.WarnContext(ctx, "audit sink circuit opened", "breaker", p.breaker.Name())
			}
		}
		return err
	}

	p.metrics.incDelivered(string(event.Category))
	if p.breaker != nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.metrics.setCircuitOpen(false)
			p.logger.InfoContext(ctx, "audit sink circuit closed", "breaker", p.breaker.Name())
		}
	}
	return nil
}

// Package notify delivers best-effort operator alerts. Dispatch never blocks
// the caller and sink failures never propagate: alerting must not be able to
// fail a user-facing response.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Alert is one operator notification.
type Alert struct {
	Subject string
	Detail  string
	At      time.Time
}

// Sink delivers an alert over one channel (email, Telegram, ...).
type Sink interface {
	Name() string
	Send(ctx context.Context, alert Alert) error
}

// Dispatcher fans alerts out to its sinks from a single worker goroutine fed
// by a buffered queue.
type Dispatcher struct {
	queue  chan Alert
	sinks  []Sink
	logger *zap.Logger
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

const (
	queueSize   = 64
	sendTimeout = 10 * time.Second
)

func NewDispatcher(logger *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		queue:  make(chan Alert, queueSize),
		sinks:  sinks,
		logger: logger,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Dispatch enqueues an alert without blocking. When the queue is full the
// alert is dropped with a warning. The mutex is held across the send so a
// concurrent Close cannot close the queue between the flag check and the
// send; the buffered non-blocking send keeps the critical section short.
func (d *Dispatcher) Dispatch(subject, detail string) {
	alert := Alert{Subject: subject, Detail: detail, At: time.Now().UTC()}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- alert:
	default:
		d.logger.Warn("Alert queue full, dropping notification", zap.String("subject", subject))
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for alert := range d.queue {
		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			if err := sink.Send(ctx, alert); err != nil {
				d.logger.Warn("Failed to deliver operator alert",
					zap.String("sink", sink.Name()),
					zap.String("subject", alert.Subject),
					zap.Error(err))
			}
			cancel()
		}
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
}

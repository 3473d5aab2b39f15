package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSink struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Send(ctx context.Context, alert Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return s.err
}

func (s *recordingSink) received() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert(nil), s.alerts...)
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	d := NewDispatcher(zap.NewNop(), first, second)

	d.Dispatch("Provider rate_limit reached", "429 from upstream")
	d.Close()

	require.Len(t, first.received(), 1)
	require.Len(t, second.received(), 1)
	alert := first.received()[0]
	assert.Equal(t, "Provider rate_limit reached", alert.Subject)
	assert.Equal(t, "429 from upstream", alert.Detail)
	assert.False(t, alert.At.IsZero())
}

func TestDispatcherCloseDrainsQueue(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(zap.NewNop(), sink)

	for i := 0; i < 10; i++ {
		d.Dispatch("subject", "detail")
	}
	d.Close()

	assert.Len(t, sink.received(), 10)
}

func TestDispatcherSinkErrorDoesNotStopOthers(t *testing.T) {
	failing := &recordingSink{err: errors.New("delivery failed")}
	healthy := &recordingSink{}
	d := NewDispatcher(zap.NewNop(), failing, healthy)

	d.Dispatch("subject", "detail")
	d.Close()

	assert.Len(t, failing.received(), 1)
	assert.Len(t, healthy.received(), 1)
}

func TestDispatchAfterCloseIsNoOp(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(zap.NewNop(), sink)
	d.Close()

	assert.NotPanics(t, func() {
		d.Dispatch("late", "after close")
	})
	assert.Empty(t, sink.received())
}

func TestDispatchDuringCloseDoesNotPanic(t *testing.T) {
	// Dispatchers racing with Close must never send on the closed queue.
	for i := 0; i < 100; i++ {
		d := NewDispatcher(zap.NewNop(), &recordingSink{})

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					d.Dispatch("subject", "detail")
				}
			}()
		}
		d.Close()
		wg.Wait()
	}
}

func TestDispatchDoesNotBlock(t *testing.T) {
	// No sinks and no Close until the end: fill well past the queue size and
	// make sure Dispatch returns promptly each time.
	d := NewDispatcher(zap.NewNop())
	defer d.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize*3; i++ {
			d.Dispatch("subject", "detail")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Dispatch blocked")
	}
}

// Package event provides a named-event dispatcher. Asynchronous listeners
// run on a bounded worker pool; when the pool is saturated the dispatch is
// dropped rather than blocking the caller.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
	"github.com/shashiranjanraj/stockroom/pkg/workerpool"
)

// Listener receives an event payload.
type Listener func(ctx context.Context, payload interface{})

// Bus routes fired events to their listeners.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	pool      *workerpool.Pool
}

// NewBus returns a Bus whose FireAsync runs on pool. A nil pool makes
// FireAsync spawn a goroutine per listener.
func NewBus(pool *workerpool.Pool) *Bus {
	return &Bus{listeners: map[string][]Listener{}, pool: pool}
}

// Listen registers l for event.
func (b *Bus) Listen(event string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[event] = append(b.listeners[event], l)
}

func (b *Bus) snapshot(event string) []Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Listener(nil), b.listeners[event]...)
}

// Fire runs every listener for event on the calling goroutine.
func (b *Bus) Fire(ctx context.Context, event string, payload interface{}) {
	for _, l := range b.snapshot(event) {
		b.invoke(ctx, event, l, payload)
	}
}

// FireAsync hands every listener to the pool and returns at once. The
// listeners see ctx's values but not its cancellation.
func (b *Bus) FireAsync(ctx context.Context, event string, payload interface{}) {
	detached := context.WithoutCancel(ctx)

	for _, l := range b.snapshot(event) {
		l := l
		task := func() { b.invoke(detached, event, l, payload) }

		if b.pool == nil {
			go task()
			continue
		}

		if err := b.pool.Submit(task); err != nil {
			metrics.HookEvents.WithLabelValues(event, "dropped").Inc()
			reason := "pool full"
			if errors.Is(err, workerpool.ErrPoolClosed) {
				reason = "pool closed"
			}
			logger.WithCtx(ctx).Warn("event: listener dropped", "event", event, "reason", reason)
		}
	}
}

func (b *Bus) invoke(ctx context.Context, event string, l Listener, payload interface{}) {
	defer func() {
		if v := recover(); v != nil {
			metrics.HookEvents.WithLabelValues(event, "panic").Inc()
			logger.WithCtx(ctx).Error("event: listener panicked", "event", event, "panic", v)
		}
	}()
	l(ctx, payload)
	metrics.HookEvents.WithLabelValues(event, "ok").Inc()
}

// Flush removes all listeners.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = map[string][]Listener{}
}

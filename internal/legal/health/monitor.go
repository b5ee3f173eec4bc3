// Package health polls the backend on a fixed interval and keeps the latest
// snapshot. It runs independently of any chat session.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	logx "github.com/kenya-legal-ai/lexclient/pkg/logger"
)

// DefaultInterval is the poll period when none is configured.
const DefaultInterval = 30 * time.Second

// Checker performs one health call.
type Checker interface {
	Health(ctx context.Context) (model.HealthSnapshot, error)
}

// Monitor polls a Checker. A failed poll reports the offline snapshot; there
// is no backoff.
type Monitor struct {
	checker  Checker
	interval time.Duration
	listener func(model.HealthSnapshot)

	mu     sync.RWMutex
	last   model.HealthSnapshot
	polled bool
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithListener is called with every snapshot, from the polling goroutine.
func WithListener(fn func(model.HealthSnapshot)) Option {
	return func(m *Monitor) { m.listener = fn }
}

func NewMonitor(c Checker, interval time.Duration, opts ...Option) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	m := &Monitor{checker: c, interval: interval}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start polls immediately, then once per interval until ctx is done or Stop
// is called. Starting a running monitor does nothing.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.Poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Poll(ctx)
			}
		}
	}()
}

// Stop cancels polling and waits for the goroutine to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Poll runs one check and records the result.
func (m *Monitor) Poll(ctx context.Context) model.HealthSnapshot {
	snap, err := m.checker.Health(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return m.lastOrOffline()
		}
		logx.Debug().Err(err).Msg("health poll failed")
		snap = model.OfflineSnapshot()
	}

	m.mu.Lock()
	m.last = snap
	m.polled = true
	m.mu.Unlock()

	if m.listener != nil {
		m.listener(snap)
	}
	return snap
}

// Last returns the most recent snapshot and whether any poll has completed.
func (m *Monitor) Last() (model.HealthSnapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.polled
}

func (m *Monitor) lastOrOffline() model.HealthSnapshot {
	if snap, ok := m.Last(); ok {
		return snap
	}
	return model.OfflineSnapshot()
}

package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
)

type checkerFunc func(ctx context.Context) (model.HealthSnapshot, error)

func (f checkerFunc) Health(ctx context.Context) (model.HealthSnapshot, error) { return f(ctx) }

func TestPollFailureIsOffline(t *testing.T) {
	m := NewMonitor(checkerFunc(func(context.Context) (model.HealthSnapshot, error) {
		return model.HealthSnapshot{}, errors.New("connection refused")
	}), time.Hour)

	_, ok := m.Last()
	assert.False(t, ok)

	snap := m.Poll(context.Background())
	assert.False(t, snap.APIOnline)
	assert.Equal(t, model.RetrievalDirect, snap.Mode)

	last, ok := m.Last()
	assert.True(t, ok)
	assert.Equal(t, snap, last)
}

func TestPollSuccess(t *testing.T) {
	m := NewMonitor(checkerFunc(func(context.Context) (model.HealthSnapshot, error) {
		return model.NewHealthSnapshot(true, true, 10), nil
	}), 0)
	assert.Equal(t, DefaultInterval, m.interval)

	snap := m.Poll(context.Background())
	assert.Equal(t, model.RetrievalGrounded, snap.Mode)
}

func TestStartPollsImmediatelyAndRepeats(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	updates := make(chan model.HealthSnapshot, 16)
	m := NewMonitor(checkerFunc(func(context.Context) (model.HealthSnapshot, error) {
		calls.Add(1)
		return model.NewHealthSnapshot(true, true, 0), nil
	}), 10*time.Millisecond, WithListener(func(s model.HealthSnapshot) {
		select {
		case updates <- s:
		default:
		}
	}))

	m.Start(context.Background())
	m.Start(context.Background())

	for i := 0; i < 3; i++ {
		select {
		case s := <-updates:
			assert.Equal(t, model.RetrievalDirect, s.Mode)
		case <-time.After(2 * time.Second):
			t.Fatal("monitor did not poll")
		}
	}

	m.Stop()
	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())

	m.Stop()
}

func TestStopCancelsInFlightPoll(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	m := NewMonitor(checkerFunc(func(ctx context.Context) (model.HealthSnapshot, error) {
		close(started)
		<-ctx.Done()
		return model.HealthSnapshot{}, ctx.Err()
	}), time.Hour)

	m.Start(context.Background())
	<-started
	m.Stop()

	_, ok := m.Last()
	require.False(t, ok)
}

func TestParentContextStopsMonitor(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	m := NewMonitor(checkerFunc(func(context.Context) (model.HealthSnapshot, error) {
		return model.OfflineSnapshot(), nil
	}), 5*time.Millisecond)

	m.Start(ctx)
	cancel()
	m.Stop()
}

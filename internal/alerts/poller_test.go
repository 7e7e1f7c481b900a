package alerts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	err    error
	alerts []model.StockAlert
	calls  atomic.Int32
	mu     sync.Mutex
	failN  int32
}

func (f *fakeSource) ActiveAlerts(_ context.Context) ([]model.StockAlert, error) {
	n := f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= f.failN {
		return nil, f.err
	}
	return f.alerts, nil
}

func receive(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "channel closed early")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func waitClosed(t *testing.T, ch <-chan Snapshot) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel was not closed")
		}
	}
}

func TestPoller_FirstPollIsImmediate(t *testing.T) {
	src := &fakeSource{alerts: []model.StockAlert{newAlert("a", model.UrgencyHigh, 1, 5, model.TrendStable)}}
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPoller(src, time.Hour, WithClock(func() time.Time { return fixed }))
	snap := receive(t, p.Run(ctx))

	assert.Equal(t, fixed, snap.TakenAt)
	assert.Equal(t, []string{"a"}, ids(snap.Alerts))
}

func TestPoller_DeliversOnEveryTick(t *testing.T) {
	src := &fakeSource{alerts: []model.StockAlert{newAlert("a", model.UrgencyLow, 1, 5, model.TrendStable)}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := NewPoller(src, 5*time.Millisecond).Run(ctx)
	for i := 0; i < 3; i++ {
		receive(t, ch)
	}
	assert.GreaterOrEqual(t, src.calls.Load(), int32(3))
}

func TestPoller_SkipsFailedPolls(t *testing.T) {
	src := &fakeSource{
		err:    errors.New("connection refused"),
		failN:  2,
		alerts: []model.StockAlert{newAlert("ok", model.UrgencyCritical, 0, 5, model.TrendWorsening)},
	}

	var failures atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPoller(src, 5*time.Millisecond, WithFailureHook(func(error) { failures.Add(1) }))
	snap := receive(t, p.Run(ctx))

	assert.Equal(t, []string{"ok"}, ids(snap.Alerts))
	assert.Equal(t, int32(2), failures.Load())
}

func TestPoller_RetriesTransientErrors(t *testing.T) {
	src := &fakeSource{
		err:    common.ErrSourceUnavailable,
		failN:  1,
		alerts: []model.StockAlert{newAlert("a", model.UrgencyLow, 1, 5, model.TrendStable)},
	}

	p := NewPoller(src, time.Hour, WithRetry(common.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond}))
	snap, err := p.Poll(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Alerts, 1)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestPoller_SnapshotIsCopy(t *testing.T) {
	src := &fakeSource{alerts: []model.StockAlert{newAlert("a", model.UrgencyLow, 1, 5, model.TrendStable)}}

	snap, err := NewPoller(src, time.Hour).Poll(context.Background())
	require.NoError(t, err)

	src.mu.Lock()
	src.alerts[0].ID = "mutated"
	src.mu.Unlock()

	assert.Equal(t, "a", snap.Alerts[0].ID)
}

func TestPoller_ClosesOnCancel(t *testing.T) {
	src := &fakeSource{}
	ctx, cancel := context.WithCancel(context.Background())

	ch := NewPoller(src, time.Millisecond).Run(ctx)
	receive(t, ch)
	cancel()

	waitClosed(t, ch)
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(&fakeSource{}, 0)
	assert.Equal(t, DefaultPollInterval, p.interval)
}

func TestFeed(t *testing.T) {
	in := make(chan Snapshot, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := Feed(ctx, in, Prioritizer{Cap: 2}, model.RoleCashier)

	in <- Snapshot{
		TakenAt: time.Unix(100, 0),
		Alerts: []model.StockAlert{
			newAlert("medium", model.UrgencyMedium, 9, 5, model.TrendStable),
			newAlert("high", model.UrgencyHigh, 4, 5, model.TrendStable),
			newAlert("crit", model.UrgencyCritical, 2, 5, model.TrendStable),
			newAlert("empty", model.UrgencyLow, 0, 5, model.TrendStable),
		},
	}

	select {
	case v := <-out:
		assert.Equal(t, model.RoleCashier, v.Role)
		assert.Equal(t, time.Unix(100, 0), v.TakenAt)
		assert.Equal(t, []string{"crit", "high"}, ids(v.Alerts))
		assert.Equal(t, 4, v.Summary.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("no view delivered")
	}

	close(in)
	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed did not close")
	}
}

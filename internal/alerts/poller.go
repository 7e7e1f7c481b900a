package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/model"
)

// DefaultPollInterval matches the refresh rate of the alert widget.
const DefaultPollInterval = 30 * time.Second

// Source supplies the current set of unresolved alerts.
type Source interface {
	ActiveAlerts(ctx context.Context) ([]model.StockAlert, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]model.StockAlert, error)

// ActiveAlerts calls f.
func (f SourceFunc) ActiveAlerts(ctx context.Context) ([]model.StockAlert, error) {
	return f(ctx)
}

// Snapshot is an immutable copy of the active alerts at one point in time.
type Snapshot struct {
	TakenAt time.Time
	Alerts  []model.StockAlert
}

// Poller periodically reads a Source and delivers snapshots on a channel.
type Poller struct {
	source    Source
	logger    *slog.Logger
	onFailure func(error)
	now       func() time.Time
	retry     common.RetryOptions
	interval  time.Duration
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithLogger sets the logger used for failed polls.
func WithLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRetry sets how a single poll retries transient source errors.
func WithRetry(opts common.RetryOptions) PollerOption {
	return func(p *Poller) {
		p.retry = opts
	}
}

// WithFailureHook registers a callback invoked for every failed poll.
func WithFailureHook(fn func(error)) PollerOption {
	return func(p *Poller) {
		p.onFailure = fn
	}
}

// WithClock overrides the time source for snapshots.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPoller creates a Poller. A non-positive interval means DefaultPollInterval.
func NewPoller(source Source, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller{
		source:   source,
		interval: interval,
		logger:   slog.Default(),
		now:      time.Now,
		retry:    common.RetryOptions{MaxAttempts: 1},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll reads the source once.
func (p *Poller) Poll(ctx context.Context) (Snapshot, error) {
	var alerts []model.StockAlert
	err := common.WithRetry(ctx, func() error {
		var err error
		alerts, err = p.source.ActiveAlerts(ctx)
		return err
	}, p.retry)
	if err != nil {
		return Snapshot{}, err
	}

	cp := make([]model.StockAlert, len(alerts))
	copy(cp, alerts)
	return Snapshot{TakenAt: p.now(), Alerts: cp}, nil
}

// Run polls immediately and then on every tick until ctx is cancelled.
// Failed polls are logged and skipped. The returned channel is closed on exit.
func (p *Poller) Run(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	go func() {
		defer close(ch)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.deliver(ctx, ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.deliver(ctx, ch)
			}
		}
	}()

	return ch
}

func (p *Poller) deliver(ctx context.Context, ch chan<- Snapshot) {
	snap, err := p.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("Alert poll failed", "error", err, "interval", p.interval)
		if p.onFailure != nil {
			p.onFailure(err)
		}
		return
	}

	select {
	case ch <- snap:
	case <-ctx.Done():
	}
}

// View is a prioritized snapshot for one role.
type View struct {
	TakenAt time.Time
	Role    model.Role
	Alerts  []model.StockAlert
	Summary Summary
}

// Feed maps every snapshot through p for role. The returned channel closes
// when in closes or ctx is cancelled.
func Feed(ctx context.Context, in <-chan Snapshot, p Prioritizer, role model.Role) <-chan View {
	out := make(chan View, 1)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-in:
				if !ok {
					return
				}
				v := View{
					TakenAt: snap.TakenAt,
					Role:    role,
					Alerts:  p.Prioritize(snap.Alerts, role),
					Summary: Summarize(snap.Alerts),
				}
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

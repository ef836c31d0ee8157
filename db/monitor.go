package db

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"size-convert/internal/logging"
)

// Pinger is anything that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor tracks whether the range data source is reachable.
// It starts pessimistic: Available is false until the first successful check.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	up       atomic.Bool
	log      *zap.Logger
}

// NewMonitor creates a monitor; each ping is bounded by half the interval
func NewMonitor(p Pinger, interval time.Duration) *Monitor {
	return &Monitor{
		pinger:   p,
		interval: interval,
		timeout:  interval / 2,
		log:      logging.Named("monitor"),
	}
}

// Available reports the result of the latest check
func (m *Monitor) Available() bool {
	return m.up.Load()
}

// Check pings once and records the result
func (m *Monitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(ctx)
	up := err == nil
	if was := m.up.Swap(up); was != up {
		if up {
			m.log.Info("data source reachable")
		} else {
			m.log.Warn("data source unreachable", zap.Error(err))
		}
	}
	return up
}

// Run checks immediately and then on every interval until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Package worker runs background maintenance next to the RPC server.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// OrderEvictor drops orders idle since a cutoff.
type OrderEvictor interface {
	EvictBefore(cutoff time.Time) int
}

// OrderJanitor periodically evicts abandoned orders so a party whose payers
// never showed up can place a new one. Orders with a payer waiting on them
// are never evicted.
type OrderJanitor struct {
	orders   OrderEvictor
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewOrderJanitor creates a janitor that sweeps every interval and evicts
// orders idle for longer than ttl.
func NewOrderJanitor(orders OrderEvictor, ttl, interval time.Duration) *OrderJanitor {
	return &OrderJanitor{
		orders:   orders,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Start sweeps every interval until ctx is done. It always returns nil so it
// can run in an errgroup next to the server.
func (j *OrderJanitor) Start(ctx context.Context) error {
	slog.Info("starting order janitor", "ttl", j.ttl, "interval", j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("order janitor stopped")
			return nil
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep evicts orders idle for longer than the TTL and returns how many were
// dropped.
func (j *OrderJanitor) Sweep() int {
	cutoff := j.now().Add(-j.ttl)
	n := j.orders.EvictBefore(cutoff)
	if n > 0 {
		slog.Info("evicted stale orders", "count", n, "cutoff", cutoff.Format(time.RFC3339))
	}
	return n
}

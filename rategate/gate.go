// Package rategate spaces out calls to the upstream API. One gate is shared
// by every session in the process; it keeps an independent clock per
// upstream service root, so calls against the search root never delay calls
// against the identity root.
package rategate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between consecutive calls to the
// same service root.
const DefaultInterval = time.Second

// Gate enforces a minimum interval between consecutive calls per service
// root. Await never fails on its own; it only delays (or returns the
// context's error if the caller gives up while parked).
type Gate struct {
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a gate with the given minimum interval between calls.
// A non-positive interval falls back to DefaultInterval.
func New(interval time.Duration) *Gate {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Gate{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Await blocks until at least the gate's interval has elapsed since the
// last call that passed through for root, then records the new call. The
// first call for a root proceeds immediately. Waiters park on the limiter
// and wake in FIFO order.
func (g *Gate) Await(ctx context.Context, root string) error {
	return g.limiter(root).Wait(ctx)
}

func (g *Gate) limiter(root string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	lim, ok := g.limiters[root]
	if !ok {
		lim = rate.NewLimiter(rate.Every(g.interval), 1)
		g.limiters[root] = lim
	}
	return lim
}

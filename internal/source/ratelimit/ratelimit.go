// Package ratelimit gates upstream sources so the scraped sites are not
// hammered beyond their configured budget.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Morteza136404/iran-price-proxy/internal/source"
)

// PerMinute builds a token-bucket limiter from a requests-per-minute budget.
func PerMinute(rpm, burst int) *rate.Limiter {
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// Limited wraps a source and waits on a token bucket before each fetch,
// or returns early if the context is canceled.
type Limited struct {
	S  source.Source
	RL *rate.Limiter
}

func (l *Limited) Name() string { return l.S.Name() }

func (l *Limited) Fetch(ctx context.Context, symbol string) (int64, error) {
	if l.RL != nil {
		if err := l.RL.Wait(ctx); err != nil {
			return 0, err
		}
	}
	return l.S.Fetch(ctx, symbol)
}

// MinInterval wraps a source and enforces a minimum time between calls.
// Each caller reserves its slot under the lock before sleeping, so concurrent
// callers are spaced Interval apart instead of racing past a stale timestamp.
// A canceled caller's reservation is not returned; its slot is simply lost.
type MinInterval struct {
	S        source.Source
	Interval time.Duration

	mu   sync.Mutex
	next time.Time // scheduled start of the next permitted call
}

func (m *MinInterval) Name() string { return m.S.Name() }

func (m *MinInterval) Fetch(ctx context.Context, symbol string) (int64, error) {
	if m.Interval > 0 {
		m.mu.Lock()
		now := time.Now()
		slot := m.next
		if slot.Before(now) {
			slot = now
		}
		m.next = slot.Add(m.Interval)
		m.mu.Unlock()
		if wait := time.Until(slot); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-t.C:
			}
		}
	}
	return m.S.Fetch(ctx, symbol)
}

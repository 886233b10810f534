package nonce

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryLimiter is an in-process Limiter.
// It is only safe for single-process deployments.
type MemoryLimiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	now      func() time.Time
	until    map[string]time.Time
}

var _ Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter(cooldown time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cooldown: cooldown,
		now:      time.Now,
		until:    make(map[string]time.Time),
	}
}

func (l *MemoryLimiter) Acquire(ctx context.Context, address string) (time.Duration, error) {
	_ = ctx
	if l.cooldown <= 0 {
		return 0, nil
	}
	key := strings.ToLower(strings.TrimSpace(address))
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.until[key]; ok && now.Before(until) {
		return until.Sub(now), ErrCoolingDown
	}
	l.until[key] = now.Add(l.cooldown)

	// sweep expired entries so the map does not grow without bound
	for k, until := range l.until {
		if !now.Before(until) {
			delete(l.until, k)
		}
	}
	return 0, nil
}

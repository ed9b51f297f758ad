package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is the in-process backing: a per-identity slice of
// request timestamps, pruned to the trailing window on every check.
// Decisions are local to one worker process.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	cfg     Config
	now     func() time.Time

	cleanupTicker *time.Ticker
	stopCh        chan struct{}
	stopOnce      sync.Once
}

// NewMemoryLimiter creates a limiter and starts a background sweep
// that drops identities idle for several windows.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	if cfg.Requests <= 0 {
		cfg = DefaultConfig()
	}
	l := &MemoryLimiter{
		buckets:       make(map[string][]time.Time),
		cfg:           cfg,
		now:           time.Now,
		cleanupTicker: time.NewTicker(5 * time.Minute),
		stopCh:        make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// SetConfig swaps the window parameters, applied to the next Allow.
// Used for config hot reload; existing timestamps are kept and judged
// against the new window.
func (l *MemoryLimiter) SetConfig(cfg Config) {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return
	}
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

// Allow implements Limiter. The current request is always appended to
// the bucket, so rejected requests still count against the window.
func (l *MemoryLimiter) Allow(_ context.Context, identity string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.cfg.Window)

	bucket := l.buckets[identity]
	pruned := bucket[:0]
	for _, ts := range bucket {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}
	pruned = append(pruned, now)
	l.buckets[identity] = pruned

	return len(pruned) <= l.cfg.Requests, nil
}

func (l *MemoryLimiter) cleanup() {
	for {
		select {
		case <-l.stopCh:
			return
		case <-l.cleanupTicker.C:
			l.mu.Lock()
			cutoff := l.now().Add(-3 * l.cfg.Window)
			for id, bucket := range l.buckets {
				if len(bucket) == 0 || bucket[len(bucket)-1].Before(cutoff) {
					delete(l.buckets, id)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop halts the cleanup goroutine.
func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() {
		l.cleanupTicker.Stop()
		close(l.stopCh)
	})
}

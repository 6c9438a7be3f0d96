package http

import (
	"sync"
	"time"
)

const (
	staleBucketAge  = 1 * time.Hour
	cleanupInterval = 30 * time.Minute
)

type bucket struct {
	remaining int
	refillAt  time.Time
}

// RateLimiter is a per-client token bucket. Each client gets capacity
// requests per refill window; idle clients are evicted in the background.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		buckets:  make(map[string]*bucket),
		stop:     make(chan struct{}),
	}
	go rl.evictStale()
	return rl
}

func (r *RateLimiter) evictStale() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			cutoff := time.Now().Add(-staleBucketAge)
			for client, b := range r.buckets {
				if b.refillAt.Before(cutoff) {
					delete(r.buckets, client)
				}
			}
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}

// Stop ends the background eviction goroutine.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Allow reports whether the client may make another request now.
func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	b, ok := r.buckets[client]
	if !ok {
		r.buckets[client] = &bucket{remaining: r.capacity - 1, refillAt: now}
		return true
	}

	if now.Sub(b.refillAt) >= r.window {
		b.remaining = r.capacity
		b.refillAt = now
	}

	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

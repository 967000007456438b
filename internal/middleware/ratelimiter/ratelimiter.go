// Package ratelimiter implements per-key token buckets.
package ratelimiter

import (
	"sync"
	"time"
)

// bucket is a single token bucket. Idle buckets remove themselves from
// their parent after the parent's expiration time.
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	timer      *time.Timer
	key        string
	parent     *KeyRateLimiter
}

// KeyRateLimiter hands out one bucket per key (a client IP, a user id).
type KeyRateLimiter struct {
	buckets        map[string]*bucket
	mu             sync.Mutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates a limiter refilling rate tokens per second up to capacity.
func New(rate float64, capacity float64, expirationTime time.Duration) *KeyRateLimiter {
	return &KeyRateLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

// remove drops b from the map unless key has since been given a new bucket.
func (l *KeyRateLimiter) remove(key string, b *bucket) {
	l.mu.Lock()
	if l.buckets[key] == b {
		delete(l.buckets, key)
	}
	l.mu.Unlock()
}

func (b *bucket) resetTimer() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.remove(b.key, b)
	})
}

// bucketFor returns key's bucket, creating it if needed. Lookup and timer
// reset happen under l.mu so an expiring timer can't remove a bucket that
// was just handed out.
func (l *KeyRateLimiter) bucketFor(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{
			tokens:     l.capacity,
			capacity:   l.capacity,
			rate:       l.rate,
			lastRefill: time.Now(),
			key:        key,
			parent:     l,
		}
		l.buckets[key] = b
	}
	b.mu.Lock()
	b.resetTimer()
	b.mu.Unlock()
	return b
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Allow takes one token from key's bucket, reporting whether one was available.
func (l *KeyRateLimiter) Allow(key string) bool {
	return l.bucketFor(key).allow()
}

// Stop cancels all expiration timers.
func (l *KeyRateLimiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.buckets {
		b.mu.Lock()
		if b.timer != nil {
			b.timer.Stop()
		}
		b.mu.Unlock()
	}
}

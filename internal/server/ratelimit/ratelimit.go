// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// Rule limits one method and path. Burst defaults to Limit when zero.
type Rule struct {
	Method string
	Path   string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds rate limiting configuration.
type Config struct {
	Rules []Rule
	// Whitelist holds client ids that are never limited.
	Whitelist map[string]bool
	// IdleTTL drops buckets unused for this long. Zero disables sweeping.
	IdleTTL time.Duration
}

// PerMinute limits method+path to limit requests per minute with a small burst.
// A non-positive limit yields a config that allows everything.
func PerMinute(method, path string, limit int) *Config {
	if limit <= 0 {
		return &Config{}
	}
	burst := max(1, limit/5)
	return &Config{
		Rules:   []Rule{{Method: method, Path: path, Limit: limit, Window: time.Minute, Burst: burst}},
		IdleTTL: time.Hour,
	}
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
}

// Limiter manages rate limiting for multiple clients using token buckets.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter and, when IdleTTL is set, a sweeper goroutine. Call Stop when done.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{}
	}
	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if config.IdleTTL > 0 {
		go l.sweepLoop(config.IdleTTL)
	}
	return l
}

// Allow consumes a token for clientID on method+path if one is available.
// Requests that match no rule are always allowed.
func (l *Limiter) Allow(clientID, method, path string) (bool, Info) {
	rule := l.match(method, path)
	if rule == nil || rule.Limit <= 0 || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := clientID + " " + method + " " + path
	b, ok := l.buckets[key]
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		b = &bucket{
			capacity:   float64(capacity),
			refillRate: float64(rule.Limit) / rule.Window.Seconds(),
			tokens:     float64(capacity),
			lastRefill: now,
		}
		l.buckets[key] = b
	}
	b.refill(now)

	info := Info{Limit: rule.Limit}
	if b.tokens >= 1 {
		b.tokens--
		info.Allowed = true
	} else {
		info.RetryAfter = time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	}
	info.Remaining = int(b.tokens)
	info.ResetTime = now.Add(time.Duration((b.capacity - b.tokens) / b.refillRate * float64(time.Second)))
	return info.Allowed, info
}

func (l *Limiter) match(method, path string) *Rule {
	for i := range l.config.Rules {
		r := &l.config.Rules[i]
		if r.Method == method && r.Path == path {
			return r
		}
	}
	return nil
}

// Sweep drops buckets that have been idle longer than ttl.
func (l *Limiter) Sweep(ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-ttl)
	for key, b := range l.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) sweepLoop(ttl time.Duration) {
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep(ttl)
		case <-l.stop:
			return
		}
	}
}

// Stop stops the sweeper goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time         { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(cfg *Config) (*Limiter, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = c.now
	return l, c
}

func TestLimiter_BurstThenLimited(t *testing.T) {
	l, _ := newTestLimiter(PerMinute("POST", "/parse-input", 30))
	defer l.Stop()

	for i := 0; i < 6; i++ {
		allowed, info := l.Allow("1.2.3.4", "POST", "/parse-input")
		assert.True(t, allowed, "request %d", i)
		assert.Equal(t, 30, info.Limit)
	}

	allowed, info := l.Allow("1.2.3.4", "POST", "/parse-input")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 2*time.Second, info.RetryAfter)
}

func TestLimiter_Refills(t *testing.T) {
	l, c := newTestLimiter(PerMinute("POST", "/parse-input", 60))
	defer l.Stop()

	for i := 0; i < 12; i++ {
		l.Allow("a", "POST", "/parse-input")
	}
	allowed, _ := l.Allow("a", "POST", "/parse-input")
	assert.False(t, allowed)

	c.advance(time.Second)
	allowed, _ = l.Allow("a", "POST", "/parse-input")
	assert.True(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(PerMinute("POST", "/parse-input", 5))
	defer l.Stop()

	allowed, _ := l.Allow("a", "POST", "/parse-input")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "POST", "/parse-input")
	assert.False(t, allowed)

	allowed, _ = l.Allow("b", "POST", "/parse-input")
	assert.True(t, allowed)
}

func TestLimiter_UnmatchedAndWhitelisted(t *testing.T) {
	cfg := PerMinute("POST", "/parse-input", 5)
	cfg.Whitelist = map[string]bool{"127.0.0.1": true}
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("a", "GET", "/health")
		assert.True(t, allowed)
		assert.Zero(t, info.Limit)

		allowed, _ = l.Allow("127.0.0.1", "POST", "/parse-input")
		assert.True(t, allowed)
	}
}

func TestPerMinute_Disabled(t *testing.T) {
	l := NewLimiter(PerMinute("POST", "/parse-input", 0))
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("a", "POST", "/parse-input")
		assert.True(t, allowed)
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l, c := newTestLimiter(&Config{Rules: []Rule{{Method: "POST", Path: "/x", Limit: 1, Window: time.Minute}}})
	defer l.Stop()

	l.Allow("a", "POST", "/x")
	c.advance(2 * time.Hour)
	l.Allow("b", "POST", "/x")

	l.Sweep(time.Hour)
	assert.Len(t, l.buckets, 1)
	_, ok := l.buckets["b POST /x"]
	assert.True(t, ok)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(PerMinute("POST", "/x", 10))
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

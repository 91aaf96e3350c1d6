package validation

import (
	"time"
)

// RateLimiter implements a token bucket rate limiter per key. It runs on
// simulation time: the owner advances it with Advance once per frame, so
// limits are deterministic and independent of wall-clock jitter.
type RateLimiter struct {
	maxRequests int
	window      float64 // seconds
	now         float64
	clients     map[string]*clientLimiter
}

// clientLimiter tracks rate limiting state for a single key
type clientLimiter struct {
	tokens     int
	lastRefill float64
	maxTokens  int
	window     float64
}

// NewRateLimiter creates a new rate limiter allowing maxRequests per window
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window.Seconds(),
		clients:     make(map[string]*clientLimiter),
	}
}

// NewFireLimiter returns a limiter allowing one shot every 1/rate seconds.
// A non-positive rate disables limiting.
func NewFireLimiter(rate int) *RateLimiter {
	if rate <= 0 {
		return nil
	}
	return NewRateLimiter(1, time.Second/time.Duration(rate))
}

// Advance moves the limiter's clock forward by dt seconds
func (rl *RateLimiter) Advance(dt float64) {
	if rl == nil || dt <= 0 {
		return
	}
	rl.now += dt
}

// Allow checks if a request should be allowed for the given key. A nil
// limiter allows everything.
func (rl *RateLimiter) Allow(clientID string) bool {
	if rl == nil {
		return true
	}

	limiter, exists := rl.clients[clientID]
	if !exists {
		limiter = &clientLimiter{
			tokens:     rl.maxRequests,
			lastRefill: rl.now,
			maxTokens:  rl.maxRequests,
			window:     rl.window,
		}
		rl.clients[clientID] = limiter
	}

	return limiter.consume(rl.now)
}

// consume attempts to consume a token from the key's bucket
func (cl *clientLimiter) consume(now float64) bool {
	elapsed := now - cl.lastRefill
	if cl.tokens >= cl.maxTokens {
		// A full bucket does not bank idle time.
		cl.lastRefill = now
	} else if elapsed > 0 {
		windowsPassed := elapsed / cl.window
		tokensToAdd := int(float64(cl.maxTokens) * windowsPassed)

		if tokensToAdd > 0 {
			cl.tokens += tokensToAdd
			if cl.tokens > cl.maxTokens {
				cl.tokens = cl.maxTokens
			}
			cl.lastRefill = now
		}
	}

	if cl.tokens > 0 {
		cl.tokens--
		return true
	}

	return false
}

// Reset forgets every key, refilling all buckets
func (rl *RateLimiter) Reset() {
	if rl == nil {
		return
	}
	rl.clients = make(map[string]*clientLimiter)
}

/**
 * @description
 * Rate limiting middleware to prevent abuse and ensure fair resource usage.
 * Uses a simple in-memory token bucket per client IP; suitable for a
 * single-node deployment.
 *
 * @dependencies
 * - sync, time, net/http: Standard Go libraries.
 */
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// tokenBucket tracks remaining tokens for one client.
type tokenBucket struct {
	tokens     int
	lastRefill time.Time
}

// RateLimiter implements a token bucket rate limiter keyed by client IP.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*tokenBucket
	capacity   int
	refillRate time.Duration // interval between single-token refills
}

// NewRateLimiter creates a limiter allowing roughly requestsPerMinute per key
// with a burst of the same size.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	rl := &RateLimiter{
		buckets:    make(map[string]*tokenBucket),
		capacity:   requestsPerMinute,
		refillRate: time.Minute / time.Duration(requestsPerMinute),
	}
	go rl.cleanupExpiredBuckets()
	return rl
}

// Allow checks if a request from the given key should be allowed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, exists := rl.buckets[key]
	if !exists {
		bucket = &tokenBucket{tokens: rl.capacity, lastRefill: now}
		rl.buckets[key] = bucket
	}

	// Refill tokens based on time elapsed
	if refill := int(now.Sub(bucket.lastRefill) / rl.refillRate); refill > 0 {
		bucket.tokens += refill
		if bucket.tokens > rl.capacity {
			bucket.tokens = rl.capacity
		}
		bucket.lastRefill = now
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}
	return false
}

// cleanupExpiredBuckets removes idle buckets to prevent memory leaks.
func (rl *RateLimiter) cleanupExpiredBuckets() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, bucket := range rl.buckets {
			if now.Sub(bucket.lastRefill) > 10*time.Minute {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitMiddleware creates a rate limiting middleware keyed by client IP.
func RateLimitMiddleware(requestsPerMinute int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(requestsPerMinute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(getClientIP(r)) {
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request, preferring proxy
// headers over the raw remote address.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, _ := strings.Cut(r.RemoteAddr, ":")
	if host == "" {
		return "unknown"
	}
	return host
}

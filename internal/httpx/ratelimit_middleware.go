package httpx

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket per client address.
type RateLimitMiddleware struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

// NewRateLimitMiddleware starts a janitor that evicts idle clients until ctx
// is done.
func NewRateLimitMiddleware(ctx context.Context, rps float64, burst int) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{
		buckets: make(map[string]*clientBucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 5 * time.Minute,
	}
	go rl.evictIdle(ctx)
	return rl
}

func (rl *RateLimitMiddleware) evictIdle(ctx context.Context) {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if now.Sub(b.lastSeen) > rl.idleTTL {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimitMiddleware) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// admit takes a token now or reports how long the client should wait.
func (rl *RateLimitMiddleware) admit(key string) (time.Duration, bool) {
	res := rl.bucket(key).Reserve()
	if !res.OK() {
		return time.Second, false
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return delay, false
	}
	return 0, true
}

func (rl *RateLimitMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wait, ok := rl.admit(clientKey(r))
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey prefers the first X-Forwarded-For hop over the peer address.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

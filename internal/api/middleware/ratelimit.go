package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per client key. A bucket holds up to
// requests tokens and refills one token every window/requests.
type RateLimiter struct {
	requests int
	every    rate.Limit
	idle     time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter starts a limiter and its sweeper. Call Stop to release it.
func NewRateLimiter(requests int, windowSeconds int) *RateLimiter {
	if requests <= 0 {
		requests = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	window := time.Duration(windowSeconds) * time.Second

	rl := &RateLimiter{
		requests: requests,
		every:    rate.Every(window / time.Duration(requests)),
		idle:     2 * window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.sweepLoop(time.Minute)
	return rl
}

// Stop ends the sweeper. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops buckets idle long enough to have refilled completely.
func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idle {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Allow takes a token for key. When none is left it reports how long until
// the next one.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.every, rl.requests)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	res := b.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, 0, delay
	}
	return true, int(math.Max(0, math.Floor(b.limiter.TokensAt(now)))), 0
}

// handler limits requests by the key that keyFn derives from the request.
func (rl *RateLimiter) handler(keyFn func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, retryAfter := rl.Allow(keyFn(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				secs := int64(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.now().Add(retryAfter).Unix(), 10))
				w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per client IP.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return rl.handler(clientIP)
}

// RateLimitByUser limits requests per authenticated user, falling back to the
// client IP. It must run after Auth.
func RateLimitByUser(rl *RateLimiter) func(http.Handler) http.Handler {
	return rl.handler(func(r *http.Request) string {
		if userID := GetUserID(r.Context()); userID != 0 {
			return "user:" + strconv.FormatUint(uint64(userID), 10)
		}
		return clientIP(r)
	})
}

// clientIP is the host part of RemoteAddr. Forwarding headers are ignored
// here; behind a trusted proxy the router installs chi's RealIP, which
// rewrites RemoteAddr first.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

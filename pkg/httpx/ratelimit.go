package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tabletopkitchen/kitchen/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines a request budget over a time window.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Profiles for the two kinds of endpoints we expose publicly. Login gets the
// strict budget because it is the brute-force target; signup is merely
// abuse-prone.
var (
	// StrictLimit: 5 requests per minute per key.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit: 20 requests per minute per key.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}
)

// KeyExtractor derives the bucket key for a request (IP, user id, ...).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client IP, honouring X-Forwarded-For and
// X-Real-IP for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// keyedLimiter holds one token bucket per key.
type keyedLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (kl *keyedLimiter) get(key string) *rate.Limiter {
	if l, ok := kl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := kl.limiters.LoadOrStore(key, rate.NewLimiter(kl.rate, kl.burst))
	kl.maybeCleanup()
	return l.(*rate.Limiter)
}

// maybeCleanup drops idle buckets so ephemeral keys (scanners, NATed IPs)
// don't accumulate forever. A bucket that is back at full burst hasn't been
// touched for at least one window.
func (kl *keyedLimiter) maybeCleanup() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if time.Since(kl.lastCleanup) < 5*time.Minute {
		return
	}
	kl.lastCleanup = time.Now()

	kl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(kl.burst) {
			kl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimit returns a middleware enforcing cfg per extracted key. Requests
// with no extractable key are allowed through (and logged) rather than
// collapsed into a single shared bucket.
func RateLimit(cfg RateLimitConfig, extract KeyExtractor) Middleware {
	kl := &keyedLimiter{
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := extract(r)
			if key == "" {
				log.Warn("rate limit: no key for request, allowing")
				next.ServeHTTP(w, r)
				return
			}

			limiter := kl.get(key)
			if !limiter.Allow() {
				res := limiter.Reserve()
				delay := res.Delay()
				res.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))

				log.Warn("rate limit exceeded", "key", key, "path", r.URL.Path)
				WriteProblem(w, http.StatusTooManyRequests,
					"Too Many Requests", "request rate limit exceeded, retry later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits by client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimit(cfg, IPKeyExtractor)
}

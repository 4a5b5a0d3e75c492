package security

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitConfig bounds how many API requests one client may make
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitService keeps one token bucket per client IP
type RateLimitService struct {
	logger  *zap.Logger
	config  RateLimitConfig
	now     func() time.Time
	mu      sync.Mutex
	clients map[string]*clientBucket
}

// NewRateLimitService creates a per-client limiter. A non-positive
// RequestsPerMinute disables limiting.
func NewRateLimitService(config RateLimitConfig, logger *zap.Logger) *RateLimitService {
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	return &RateLimitService{
		logger:  logger.Named("rate-limit"),
		config:  config,
		now:     time.Now,
		clients: make(map[string]*clientBucket),
	}
}

// Allow reports whether the client may make another request
func (r *RateLimitService) Allow(client string) bool {
	if r.config.RequestsPerMinute <= 0 {
		return true
	}

	now := r.now()
	r.mu.Lock()
	bucket, ok := r.clients[client]
	if !ok {
		bucket = &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(float64(r.config.RequestsPerMinute)/60), r.config.Burst),
		}
		r.clients[client] = bucket
	}
	bucket.lastSeen = now
	r.mu.Unlock()

	return bucket.limiter.AllowN(now, 1)
}

// RateLimitMiddleware answers 429 once a client exhausts its bucket
func (r *RateLimitService) RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		client := clientIP(req)
		if !r.Allow(client) {
			r.logger.Warn("Rate limit exceeded",
				zap.String("ip", client),
				zap.String("path", req.URL.Path),
			)
			retryAfter := 60 / r.config.RequestsPerMinute
			w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			http.Error(w, `{"success":false,"error":"Too many requests. Please try again later."}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// Cleanup drops buckets idle for longer than IdleTTL and returns how many were removed
func (r *RateLimitService) Cleanup() int {
	cutoff := r.now().Add(-r.config.IdleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for client, bucket := range r.clients {
		if bucket.lastSeen.Before(cutoff) {
			delete(r.clients, client)
			removed++
		}
	}
	return removed
}

// RunJanitor calls Cleanup every interval until ctx is done
func (r *RateLimitService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Cleanup(); n > 0 {
				r.logger.Debug("Dropped idle rate limit buckets", zap.Int("count", n))
			}
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

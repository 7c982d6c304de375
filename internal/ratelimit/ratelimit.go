// Package ratelimit throttles unauthenticated endpoints per client address.
package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config sets the per-client budget. Idle entries are dropped after twice
// CleanupInterval.
type Config struct {
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
}

// DefaultConfig allows 10 attempts a minute with a burst of 5.
func DefaultConfig() Config {
	return Config{PerMinute: 10, Burst: 5, CleanupInterval: 5 * time.Minute}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter keeps one token bucket per client key.
type Limiter struct {
	limit     rate.Limit
	perMinute int
	burst     int
	interval  time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New starts a Limiter and its cleanup goroutine. Call Stop when done.
func New(cfg Config, logger *slog.Logger) *Limiter {
	def := DefaultConfig()
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = def.PerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Limiter{
		limit:     rate.Limit(float64(cfg.PerMinute) / 60.0),
		perMinute: cfg.PerMinute,
		burst:     cfg.Burst,
		interval:  cfg.CleanupInterval,
		logger:    logger,
		clients:   make(map[string]*clientLimiter),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Stop ends the cleanup goroutine and waits for it. It is safe to call twice.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	<-l.done
}

// Allow spends one token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Clients reports how many keys are tracked.
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over budget with 429 and Retry-After.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ClientKey(r)
		if !l.Allow(key) {
			l.logger.Warn("rate limit exceeded", slog.String("client", key), slog.String("path", r.URL.Path))
			l.writeLimited(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientKey identifies the caller by remote host.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if c, ok := l.clients[key]; ok {
		c.lastAccess = now
		return c.limiter
	}
	c := &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst), lastAccess: now}
	l.clients[key] = c
	return c.limiter
}

func (l *Limiter) cleanupLoop() {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup(time.Now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *Limiter) cleanup(now time.Time) {
	ttl := 2 * l.interval

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.clients {
		if now.Sub(c.lastAccess) > ttl {
			delete(l.clients, key)
		}
	}
}

func (l *Limiter) writeLimited(w http.ResponseWriter) {
	// seconds until the next token
	retry := (60 + l.perMinute - 1) / l.perMinute
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
}

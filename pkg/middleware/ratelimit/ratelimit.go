// Package ratelimit throttles requests per client address.
package ratelimit

import (
	"net"
	"net/http"
	"sync"

	"github.com/vadimbarashkov/nhood/pkg/middleware"
	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per client. Buckets are never evicted.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func New(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (l *Limiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}

	return lim
}

// Middleware answers 429 with an empty body once a client runs out of tokens.
// It keys clients by r.RemoteAddr without the port, so it should run after
// chi's RealIP middleware.
func (l *Limiter) Middleware() middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if host, _, err := net.SplitHostPort(key); err == nil {
				key = host
			}

			if !l.limiter(key).Allow() {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

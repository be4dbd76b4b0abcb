package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RequestLogger logs one structured line per request.
func RequestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// limiterPool hands out one token bucket per key and drops buckets
// that have been idle for a while.
type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*pooledLimiter
	rate     rate.Limit
	burst    int
}

type pooledLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(perSecond float64, burst int) *limiterPool {
	return &limiterPool{
		limiters: make(map[string]*pooledLimiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	pl, ok := p.limiters[key]
	if !ok {
		pl = &pooledLimiter{limiter: rate.NewLimiter(p.rate, p.burst)}
		p.limiters[key] = pl
	}
	pl.lastSeen = time.Now()

	// Opportunistic pruning keeps the map bounded without a ticker.
	if len(p.limiters) > 1024 {
		cutoff := time.Now().Add(-30 * time.Minute)
		for k, v := range p.limiters {
			if v.lastSeen.Before(cutoff) {
				delete(p.limiters, k)
			}
		}
	}
	return pl.limiter
}

// RateLimit throttles mutations per session, falling back to the
// client address for routes without a session.
func (p *limiterPool) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "sessionID")
		if key == "" {
			key = r.RemoteAddr
		}
		if !p.get(key).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorTTL       = 10 * time.Minute
	maxVisitors      = 10000
	rateLimitMessage = "rate limit exceeded"
)

// RateLimitMiddleware gives each client IP its own token bucket. Paths in
// skipPaths bypass the limiter.
func RateLimitMiddleware(rps float64, burst int, skipPaths []string) Middleware {
	v := newVisitors(rate.Limit(rps), burst)
	skip := pathSet(skipPaths)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !skip[r.URL.Path] && !v.allow(clientIP(r), time.Now()) {
				rateLimited.Inc()
				RateLimited(w, rateLimitMessage, r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// visitors holds the per-client limiters. Idle entries are swept when the
// table fills up.
type visitors struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	byIP  map[string]*visitor
}

func newVisitors(limit rate.Limit, burst int) *visitors {
	return &visitors{limit: limit, burst: burst, byIP: make(map[string]*visitor)}
}

func (v *visitors) allow(ip string, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	vis, ok := v.byIP[ip]
	if !ok {
		if len(v.byIP) >= maxVisitors {
			v.sweep(now.Add(-visitorTTL))
		}
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.byIP[ip] = vis
	}
	vis.seen = now
	return vis.limiter.AllowN(now, 1)
}

// sweep drops visitors idle since before cutoff. v.mu must be held.
func (v *visitors) sweep(cutoff time.Time) {
	for ip, vis := range v.byIP {
		if vis.seen.Before(cutoff) {
			delete(v.byIP, ip)
		}
	}
}

// clientIP prefers the first valid X-Forwarded-For hop, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func pathSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

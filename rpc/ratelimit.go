package rpc

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"launchpad/observability"
)

const visitorIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter applies a token bucket per authenticated caller, falling back
// to the client address for anonymous requests. X-Forwarded-For is only
// honoured when the immediate peer is a trusted proxy.
type rateLimiter struct {
	perMinute      int
	trustedProxies map[string]struct{}
	mu             sync.Mutex
	visitors       map[string]*visitor
	lastSweep      time.Time
	clockNow       func() time.Time
}

func newRateLimiter(perMinute int, trustedProxies []string) *rateLimiter {
	trusted := make(map[string]struct{}, len(trustedProxies))
	for _, proxy := range trustedProxies {
		if ip := canonicalIP(proxy); ip != "" {
			trusted[ip] = struct{}{}
		}
	}
	return &rateLimiter{
		perMinute:      perMinute,
		trustedProxies: trusted,
		visitors:       make(map[string]*visitor),
		clockNow:       time.Now,
	}
}

func (l *rateLimiter) allow(id string) bool {
	if l.perMinute <= 0 {
		return true
	}
	now := l.clockNow()
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) >= visitorIdle {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) >= visitorIdle {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}
	v, ok := l.visitors[id]
	if !ok {
		burst := l.perMinute / 6
		if burst < 1 {
			burst = 1
		}
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), burst)}
		l.visitors[id] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := l.clientSource(r)
		if caller, ok := callerFrom(r.Context()); ok {
			id = callerKey(caller)
		}
		if !l.allow(id) {
			observability.RPC().RecordThrottle("rate_limit")
			writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *rateLimiter) clientSource(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if _, trusted := l.trustedProxies[canonicalIP(peer)]; !trusted {
		return peer
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if candidate := canonicalIP(strings.Split(forwarded, ",")[0]); candidate != "" {
			return candidate
		}
	}
	return peer
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// canonicalIP strips an optional port and returns the textual IP, or "" when
// value is not an address.
func canonicalIP(value string) string {
	value = strings.TrimSpace(value)
	if host, _, err := net.SplitHostPort(value); err == nil {
		value = host
	}
	ip := net.ParseIP(value)
	if ip == nil {
		return ""
	}
	return ip.String()
}

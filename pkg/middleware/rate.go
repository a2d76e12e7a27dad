// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/shashiranjanraj/stockroom/pkg/response"
)

// visitor is one client's token bucket.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits each client IP to max requests per window. Tokens
// refill evenly across the window and a client may burst up to max.
type RateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	trusted []netip.Prefix

	mu       sync.Mutex
	visitors map[string]*visitor

	stop chan struct{}
	once sync.Once
}

// RateOption configures a RateLimiter.
type RateOption func(*RateLimiter)

// WithTrustedProxies keys requests arriving from one of prefixes on the first
// X-Forwarded-For hop instead of the connecting peer.
func WithTrustedProxies(prefixes ...netip.Prefix) RateOption {
	return func(rl *RateLimiter) { rl.trusted = append(rl.trusted, prefixes...) }
}

// ParseTrustedProxies parses addresses ("10.0.0.7") and CIDRs ("10.0.0.0/8").
func ParseTrustedProxies(list []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, raw := range list {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("middleware: trusted proxy %q: %w", raw, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("middleware: trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// NewRateLimiter starts a limiter and a janitor evicting idle clients.
// Call Stop to release the janitor.
func NewRateLimiter(max int, window time.Duration, opts ...RateOption) *RateLimiter {
	rl := &RateLimiter{
		max:      max,
		window:   window,
		now:      time.Now,
		visitors: map[string]*visitor{},
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}
	go rl.janitor()
	return rl
}

// Allow spends one token for key and reports whether one was available.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.max)), rl.max)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects over-budget clients with a 429 fail envelope.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.clientKey(r)) {
			response.TooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop ends the janitor. It is safe to call multiple times.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			now := rl.now()
			rl.mu.Lock()
			for key, v := range rl.visitors {
				// An idle window means the bucket has refilled.
				if now.Sub(v.lastSeen) > rl.window {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientKey is the socket peer, or the first X-Forwarded-For hop when the
// peer is a trusted proxy. Untrusted peers cannot choose their own key.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	peer := peerIP(r)
	if !rl.trusts(peer) {
		return peer
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return peer
}

func (rl *RateLimiter) trusts(ip string) bool {
	if len(rl.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rl.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// peerIP is the host part of the connection's remote address.
func peerIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

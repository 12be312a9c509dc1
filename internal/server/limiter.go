package server

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/zenithstorm/comp645-team1-game/internal/config"
)

// SessionLimiter tracks and limits concurrent games per IP and in total.
type SessionLimiter struct {
	mu         sync.Mutex
	ipCounts   map[string]int
	totalCount int
	maxPerIP   int
	maxTotal   int
}

// NewSessionLimiter creates a limiter from the WebSocket settings.
func NewSessionLimiter(cfg config.WebSocketConfig) *SessionLimiter {
	return &SessionLimiter{
		ipCounts: make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxSessions,
	}
}

// TryAcquire takes a slot for ip. It returns false if either limit is reached.
func (l *SessionLimiter) TryAcquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.totalCount >= l.maxTotal {
		return false
	}
	if l.maxPerIP > 0 && l.ipCounts[ip] >= l.maxPerIP {
		return false
	}

	l.ipCounts[ip]++
	l.totalCount++
	return true
}

// Release gives back a slot for ip.
func (l *SessionLimiter) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ipCounts[ip] == 0 {
		return
	}
	l.ipCounts[ip]--
	if l.ipCounts[ip] == 0 {
		delete(l.ipCounts, ip)
	}
	l.totalCount--
}

// Stats returns the number of held slots and distinct IPs.
func (l *SessionLimiter) Stats() (total int, ips int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalCount, len(l.ipCounts)
}

// extractIP extracts the IP address from a remote address string (ip:port format).
func extractIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// realIP returns the client IP, preferring X-Forwarded-For and X-Real-IP
// set by a reverse proxy.
func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return extractIP(r.RemoteAddr)
}

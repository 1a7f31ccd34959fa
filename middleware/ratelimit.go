package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// WriteLimiter throttles mutating requests per client IP.
// At most maxWrites requests per window; the next one gets 429.
type WriteLimiter struct {
	mu        sync.Mutex
	clients   map[string][]time.Time
	maxWrites int
	window    time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWriteLimiter starts a limiter and its cleanup loop; call Stop to end the loop
func NewWriteLimiter(maxWrites int, window time.Duration) *WriteLimiter {
	l := &WriteLimiter{
		clients:   make(map[string][]time.Time),
		maxWrites: maxWrites,
		window:    window,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go l.cleanupLoop(time.Minute)
	return l
}

// Handler the gin middleware
func (l *WriteLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Muitas requisições, tente novamente em instantes.",
			})
			return
		}
		c.Next()
	}
}

func (l *WriteLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := prune(l.clients[ip], now.Add(-l.window))
	if len(ts) >= l.maxWrites {
		l.clients[ip] = ts
		return false
	}
	l.clients[ip] = append(ts, now)
	return true
}

func (l *WriteLimiter) cleanupLoop(interval time.Duration) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.cleanup(now)
		case <-l.stop:
			return
		}
	}
}

// cleanup drops clients with no writes inside the window
func (l *WriteLimiter) cleanup(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	for ip, ts := range l.clients {
		ts = prune(ts, cutoff)
		if len(ts) == 0 {
			delete(l.clients, ip)
		} else {
			l.clients[ip] = ts
		}
	}
}

// ActiveClients number of tracked client IPs
func (l *WriteLimiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop ends the cleanup loop. Safe to call more than once.
func (l *WriteLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

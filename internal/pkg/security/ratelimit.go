package security

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientLimiter keeps one token bucket per client address. Entries unseen for
// the idle TTL are swept by a background goroutine; Stop ends the sweeper.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	done    chan struct{}
	once    sync.Once
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a limiter allowing perMinute requests per client
// with the given burst.
func NewClientLimiter(perMinute, burst int) *ClientLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	l := &ClientLimiter{
		clients: make(map[string]*clientEntry),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		done:    make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow reports whether the client may proceed with one request.
func (l *ClientLimiter) Allow(addr string) bool {
	l.mu.Lock()
	entry, ok := l.clients[addr]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[addr] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

// Stop ends the background sweeper.
func (l *ClientLimiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

func (l *ClientLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-l.idleTTL)
			l.mu.Lock()
			for addr, entry := range l.clients {
				if entry.lastSeen.Before(cutoff) {
					delete(l.clients, addr)
				}
			}
			l.mu.Unlock()
		}
	}
}

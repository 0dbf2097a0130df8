package http

import (
	"sync"
	"time"
)

const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 120
)

// rateLimiter keeps a sliding window of request timestamps per client IP.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string][]time.Time
	done    chan struct{}
	once    sync.Once
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string][]time.Time),
		done:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	stamps := rl.clients[ip]
	kept := stamps[:0]
	for _, t := range stamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rateLimitRequests {
		rl.clients[ip] = kept
		return false
	}

	rl.clients[ip] = append(kept, now)
	return true
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rateLimitWindow)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rateLimitWindow)
	for ip, stamps := range rl.clients {
		kept := stamps[:0]
		for _, t := range stamps {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(rl.clients, ip)
			continue
		}
		rl.clients[ip] = kept
	}
}

func (rl *rateLimiter) stop() {
	rl.once.Do(func() { close(rl.done) })
}

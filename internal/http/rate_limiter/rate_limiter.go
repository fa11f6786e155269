package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	visitorIdle     = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Visitors keeps one token bucket per client IP.
type Visitors struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	visitors map[string]*clientLimiter
}

func NewVisitors(rps float64, burst int) *Visitors {
	if burst < 1 {
		burst = 1
	}
	return &Visitors{
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		visitors: make(map[string]*clientLimiter),
	}
}

// GetVisitor returns the limiter for ip, creating it on first sight.
func (v *Visitors) GetVisitor(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, exists := v.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(v.rps, v.burst)
		v.visitors[ip] = &clientLimiter{limiter, v.now()}
		return limiter
	}

	c.lastSeen = v.now()
	return c.limiter
}

// Allow reports whether ip may make a request now.
func (v *Visitors) Allow(ip string) bool {
	return v.GetVisitor(ip).Allow()
}

// Cleanup forgets visitors not seen for longer than maxIdle.
func (v *Visitors) Cleanup(maxIdle time.Duration) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	for ip, c := range v.visitors {
		if v.now().Sub(c.lastSeen) > maxIdle {
			delete(v.visitors, ip)
			removed++
		}
	}
	return removed
}

// StartVisitorCleanupLoop prunes idle visitors every minute until ctx is done.
func (v *Visitors) StartVisitorCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.Cleanup(visitorIdle)
		}
	}
}

package limiter

import (
	"sync"
	"time"
)

type clientStatus struct {
	currCount       int
	prevCount       int
	currWindowStart time.Time
}

// RateLimiter is a sliding-window per-IP limiter: the previous window
// weighs on the estimate in proportion to how little of the current
// window has elapsed.
type RateLimiter struct {
	clients map[string]*clientStatus
	mu      sync.Mutex
	limit   float64
	window  time.Duration
}

func New(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientStatus),
		limit:   float64(limit),
		window:  window,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	currWindowStart := now.Truncate(rl.window)

	status, exists := rl.clients[ip]
	if !exists {
		rl.clients[ip] = &clientStatus{
			currCount:       1,
			currWindowStart: currWindowStart,
		}
		return true
	}

	if currWindowStart.After(status.currWindowStart) {
		elapsedWindows := currWindowStart.Sub(status.currWindowStart) / rl.window
		if elapsedWindows == 1 {
			status.prevCount = status.currCount
		} else {
			status.prevCount = 0
		}
		status.currCount = 0
		status.currWindowStart = currWindowStart
	}

	timeIntoWindow := now.Sub(currWindowStart)
	prevWeight := float64(rl.window-timeIntoWindow) / float64(rl.window)

	estimatedRate := float64(status.prevCount)*prevWeight + float64(status.currCount)
	if estimatedRate >= rl.limit {
		return false
	}

	status.currCount++
	return true
}

// IsRateLimited returns true if the client is over its budget.
func (rl *RateLimiter) IsRateLimited(ip string) bool {
	return !rl.Allow(ip)
}

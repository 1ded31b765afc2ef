package limit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SubmissionLimiter throttles feedback submissions per user.
type SubmissionLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    time.Duration
	burst    int
}

// NewSubmissionLimiter allows perMinute submissions per user with the given burst.
// A non-positive perMinute disables limiting.
func NewSubmissionLimiter(perMinute, burst int) *SubmissionLimiter {
	l := &SubmissionLimiter{
		limiters: make(map[string]*rate.Limiter),
		burst:    burst,
	}
	if perMinute > 0 {
		l.every = time.Minute / time.Duration(perMinute)
	}
	if l.burst <= 0 {
		l.burst = 1
	}
	return l
}

func (l *SubmissionLimiter) get(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.every), l.burst)
		l.limiters[userID] = lim
	}
	return lim
}

func (l *SubmissionLimiter) Allow(userID string) bool {
	if l == nil || l.every == 0 {
		return true
	}
	return l.get(userID).Allow()
}

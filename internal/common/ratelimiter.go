package common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type RateLimiter struct {
	mu           sync.Mutex
	restrictions []Restriction    // Restrictions to consider
	history      []time.Time      // History of requests
	duration     time.Duration    // Longest restriction, history older than this is useless
	cooldown     Stopwatch        // Started when the server tells us to slow down
	baseCooldown time.Duration
	now          func() time.Time // Clock, replaced in tests
}

// Create a rate limiter for the provided restrictions. The cooldown is
// the time every request waits after the server answers with a rate limit
func NewRateLimiter(restrictions []Restriction, cooldown time.Duration) *RateLimiter {
	rl := &RateLimiter{now: time.Now}
	rl.restrictions = make([]Restriction, len(restrictions))
	copy(rl.restrictions, restrictions)
	for _, restriction := range restrictions {
		if restriction.Duration > rl.duration {
			rl.duration = restriction.Duration
		}
	}
	rl.baseCooldown = cooldown
	rl.cooldown = NewStopwatch(cooldown)
	return rl
}

// Block until the restrictions allow one more request, and account for it.
// Returns the context error if the context ends first
func (rl *RateLimiter) Wait(ctx context.Context) error {

	var requestId uuid.UUID
	for {
		rl.mu.Lock()
		now := rl.now()
		rl.trim(now)
		analysis := rl.analyse(now)
		if analysis.allowed {
			rl.history = append(rl.history, now)
			rl.mu.Unlock()
			return nil
		}
		rl.mu.Unlock()

		if requestId == uuid.Nil {
			requestId = uuid.New()
		}
		log.Warn().Msg(fmt.Sprintf("Request %s delayed %.1f seconds", requestId, analysis.wait.Seconds()))

		timer := time.NewTimer(analysis.wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// The server answered with a rate limit, so hold every request
// for the cooldown period. A longer wait requested by the server wins
func (rl *RateLimiter) ReceivedRateLimit(retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cooldown.Timeout = max(rl.baseCooldown, retryAfter)
	rl.cooldown.Start(rl.now())
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim(now time.Time) {
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if now.Sub(rl.history[i]) >= rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse(now time.Time) Analysis {

	allowed := true
	var wait time.Duration

	if remaining := rl.cooldown.Remaining(now); remaining > 0 {
		allowed = false
		wait = remaining
	}

	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history, now)
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}
	return Analysis{allowed, wait}
}

package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestrictionAnalyse(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	restriction := Restriction{Requests: 2, Duration: 10 * time.Second}

	// Empty history
	analysis := restriction.Analyse(nil, now)
	assert.True(t, analysis.allowed)

	// One request in the window
	analysis = restriction.Analyse([]time.Time{now.Add(-time.Second)}, now)
	assert.True(t, analysis.allowed)

	// Two requests in the window, the oldest one leaves in 4 seconds
	history := []time.Time{now.Add(-6 * time.Second), now.Add(-time.Second)}
	analysis = restriction.Analyse(history, now)
	assert.False(t, analysis.allowed)
	assert.Equal(t, 4*time.Second, analysis.wait)

	// Old requests do not count
	history = []time.Time{now.Add(-30 * time.Second), now.Add(-20 * time.Second), now.Add(-time.Second)}
	analysis = restriction.Analyse(history, now)
	assert.True(t, analysis.allowed)
}

func TestRestrictionWithoutRequestsIsUnlimited(t *testing.T) {
	restriction := Restriction{}
	assert.True(t, restriction.Analyse([]time.Time{time.Now()}, time.Now()).allowed)
}

func TestRateLimiterWait(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 2, Duration: 80 * time.Millisecond}}, time.Minute)

	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))
	require.NoError(t, rl.Wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	// The third request has to wait for the first one to leave the window
	require.NoError(t, rl.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestRateLimiterWaitHonoursContext(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 1, Duration: time.Hour}}, time.Minute)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiterCooldown(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(nil, 30*time.Second)
	rl.now = func() time.Time { return now }

	rl.ReceivedRateLimit(0)
	analysis := rl.analyse(now.Add(10 * time.Second))
	assert.False(t, analysis.allowed)
	assert.Equal(t, 20*time.Second, analysis.wait)

	// The server asked for longer than our own cooldown
	rl.ReceivedRateLimit(time.Minute)
	analysis = rl.analyse(now.Add(40 * time.Second))
	assert.False(t, analysis.allowed)
	assert.Equal(t, 20*time.Second, analysis.wait)

	analysis = rl.analyse(now.Add(2 * time.Minute))
	assert.True(t, analysis.allowed)
}

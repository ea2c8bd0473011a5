package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopwatch(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStopwatch(time.Minute)
	assert.Equal(t, time.Duration(0), s.Remaining(now))

	s.Start(now)
	assert.True(t, s.Running)
	assert.Equal(t, 45*time.Second, s.Remaining(now.Add(15*time.Second)))

	// Reaching the timeout stops it
	assert.Equal(t, time.Duration(0), s.Remaining(now.Add(2*time.Minute)))
	assert.False(t, s.Running)

	s.Start(now)
	s.Stop()
	assert.Equal(t, time.Duration(0), s.Remaining(now))
}

package common

import (
	"time"
)

// This stopwatch keeps track of time. You can set a timeout for it,
// make it start counting time, and ask it if the timeout has been reached
type Stopwatch struct {
	Timeout   time.Duration
	startTime time.Time
	Running   bool
}

func NewStopwatch(timeout time.Duration) Stopwatch {
	return Stopwatch{Timeout: timeout}
}

func (s *Stopwatch) Start(now time.Time) {
	s.Running = true
	s.startTime = now
}

func (s *Stopwatch) Stop() {
	s.Running = false
}

// Return the time left until the timeout is reached.
// A stopped stopwatch, or one whose timeout has passed, has nothing left
func (s *Stopwatch) Remaining(now time.Time) time.Duration {
	if !s.Running {
		return 0
	}
	remaining := s.startTime.Add(s.Timeout).Sub(now)
	if remaining <= 0 {
		s.Running = false
		return 0
	}
	return remaining
}

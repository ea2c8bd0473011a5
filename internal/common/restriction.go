package common

import "time"

// A restriction means that only the specified number of requests
// are allowed for a specific time duration
type Restriction struct {
	Requests int           `yaml:"requests"`
	Duration time.Duration `yaml:"duration"`
}

type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

// Analyse the recent history of requests and find out
// if a new request at the provided time should be allowed or not.
// History is stored in chronological order
func (rest *Restriction) Analyse(history []time.Time, now time.Time) Analysis {

	if rest.Requests <= 0 {
		return Analysis{true, 0}
	}

	// Count the requests inside my window, starting from the end.
	// If one request is too old, the rest will be too
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if now.Sub(history[i]) >= rest.Duration {
			break
		}
		count++
	}

	if count < rest.Requests {
		return Analysis{true, 0}
	}

	// The request is allowed again once enough requests leave the window
	blocking := history[len(history)-rest.Requests]
	return Analysis{false, blocking.Add(rest.Duration).Sub(now)}
}

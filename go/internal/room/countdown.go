package room

import "time"

// Countdown is the derived remaining time for an auction. It is computed
// fresh from the end time and the current time on every tick, so there is
// no drift to accumulate across paused tabs or reconnects.
type Countdown struct {
	Remaining time.Duration
	Ended     bool
}

// RemainingUntil derives the countdown from an authoritative end time and
// the current time. A zero end time means no countdown is known yet.
func RemainingUntil(endTime, now time.Time) Countdown {
	if endTime.IsZero() {
		return Countdown{}
	}
	remaining := endTime.Sub(now)
	if remaining <= 0 {
		return Countdown{Ended: true}
	}
	return Countdown{Remaining: remaining}
}

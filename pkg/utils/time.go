package utils

import "time"

// Seconds converts a floating-point number of seconds to a time.Duration.
// Scenario configs and the attack catalog express time in seconds; the
// rest of the pipeline works in durations relative to the scenario origin.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// ToSeconds converts a duration to floating-point seconds
func ToSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// MinDuration returns the smaller of two durations
func MinDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// MaxDuration returns the larger of two durations
func MaxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

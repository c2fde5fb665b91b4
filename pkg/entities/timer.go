package entities

import "time"

// Timer tracks a single timed production run. It is state, not a
// process: progress is recomputed from the wall clock on demand and the
// timer never persists itself.
type Timer struct {
	StartedAt *time.Time    // nil when the timer is not running
	Duration  time.Duration // fixed per building kind
}

// Start begins the run at the given instant.
func (t *Timer) Start(now time.Time) {
	started := now
	t.StartedAt = &started
}

// Clear stops the run and resets progress to zero.
func (t *Timer) Clear() {
	t.StartedAt = nil
}

// Running reports whether the timer is mid-run. A timer with a missing
// start or a zero duration is treated as not running rather than an
// error, so a malformed record can never poison the poller.
func (t Timer) Running() bool {
	return t.StartedAt != nil && t.Duration > 0
}

// Progress returns completion in [0,100] at the given instant. It is a
// pure function of the timer's fields and performs no mutation.
func (t Timer) Progress(now time.Time) float64 {
	if !t.Running() {
		return 0
	}
	elapsed := now.Sub(*t.StartedAt).Seconds()
	if elapsed <= 0 {
		return 0
	}
	progress := (elapsed / t.Duration.Seconds()) * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// Complete reports whether the run has reached 100%.
func (t Timer) Complete(now time.Time) bool {
	return t.Running() && t.Progress(now) >= 100
}

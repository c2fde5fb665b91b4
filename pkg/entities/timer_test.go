package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerProgress(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	timer := Timer{Duration: ChargeDuration}
	timer.Start(start)

	assert.Equal(t, float64(0), timer.Progress(start))
	assert.Equal(t, float64(25), timer.Progress(start.Add(3*time.Hour)))
	assert.Equal(t, float64(50), timer.Progress(start.Add(6*time.Hour)))
	assert.Equal(t, float64(100), timer.Progress(start.Add(12*time.Hour)))

	// Clamps at 100 well past completion
	assert.Equal(t, float64(100), timer.Progress(start.Add(48*time.Hour)))
}

func TestTimerProgressMonotonic(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	timer := Timer{Duration: 6 * time.Hour}
	timer.Start(start)

	previous := float64(0)
	for i := 0; i < 30; i++ {
		now := start.Add(time.Duration(i) * 30 * time.Minute)
		progress := timer.Progress(now)
		assert.GreaterOrEqual(t, progress, previous)
		assert.LessOrEqual(t, progress, float64(100))
		previous = progress
	}
}

func TestTimerNotRunning(t *testing.T) {
	// Never started
	timer := Timer{Duration: ChargeDuration}
	assert.False(t, timer.Running())
	assert.Equal(t, float64(0), timer.Progress(time.Now()))
	assert.False(t, timer.Complete(time.Now()))

	// Malformed: started but no duration. Must read as not in progress
	// instead of raising.
	now := time.Now()
	malformed := Timer{}
	malformed.Start(now.Add(-24 * time.Hour))
	assert.False(t, malformed.Running())
	assert.Equal(t, float64(0), malformed.Progress(now))
	assert.False(t, malformed.Complete(now))
}

func TestTimerClear(t *testing.T) {
	start := time.Now()

	timer := Timer{Duration: time.Hour}
	timer.Start(start)
	assert.True(t, timer.Running())

	timer.Clear()
	assert.False(t, timer.Running())
	assert.Equal(t, float64(0), timer.Progress(start.Add(2*time.Hour)))
}

func TestTimerFutureStart(t *testing.T) {
	now := time.Now()

	// A clock skew putting the start in the future reads as zero
	// progress, never negative.
	timer := Timer{Duration: time.Hour}
	timer.Start(now.Add(time.Hour))
	assert.Equal(t, float64(0), timer.Progress(now))
}

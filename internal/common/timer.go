// Package common provides shared utilities including timing functionality.
package common

import (
	"fmt"
	"log/slog"
	"time"
)

// Timer measures elapsed time for a named pipeline stage. Timings are only
// ever logged; they never appear in analysis results, which must stay
// deterministic for identical inputs.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewTimer creates a new unnamed timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer creates a new timer with the given name.
func NewNamedTimer(name string) *Timer {
	return &Timer{
		name:  name,
		start: time.Now(),
	}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Name returns the timer name (empty string if unnamed).
func (t *Timer) Name() string {
	return t.name
}

// StopAndLog stops the timer and emits a debug log entry for the stage.
func (t *Timer) StopAndLog() time.Duration {
	d := t.Stop()
	slog.Debug("stage complete", "stage", t.name, "duration", d)
	return d
}

// String returns a formatted string representation of the timer.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.duration)
	}
	return fmt.Sprintf("%v", t.duration)
}

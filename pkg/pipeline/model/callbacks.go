package model

import "time"

// Level tags a log message with its severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// LogFunc receives one ordered log line. It is called synchronously from the
// goroutine executing the pipeline, so implementations must not block for
// long and must not assume any particular UI toolkit.
type LogFunc func(message string, level Level)

// ProgressFunc receives the overall completion percentage (0-100), a short
// status line and an advisory remaining-time estimate. hasEstimate is false
// while the percentage is still zero.
type ProgressFunc func(percentage int, message string, remaining time.Duration, hasEstimate bool)

// EstimateRemaining extrapolates the remaining wall-clock time from the time
// elapsed so far: remaining = elapsed * (100/percentage - 1). There is no
// estimate at zero percent.
func EstimateRemaining(elapsed time.Duration, percentage int) (time.Duration, bool) {
	if percentage <= 0 {
		return 0, false
	}
	if percentage >= 100 {
		return 0, true
	}

	return time.Duration(float64(elapsed) * (100.0/float64(percentage) - 1)), true
}

// StageInfo describes one pipeline stage: its display name and the half-open
// slice of the overall progress scale it owns.
type StageInfo struct {
	Name     string
	StartPct int
	EndPct   int
}

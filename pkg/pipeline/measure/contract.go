// Package measure accumulates the statistics of one pipeline run into a
// single flat mapping consumable by an external report generator.
package measure

import "time"

// Measure collects named metrics. Values are append-only: the first write
// for a name wins and later writes are dropped, so a metric recorded by a
// completed stage can never be clobbered by a later one.
type Measure interface {
	// Set records a preformatted value.
	Set(name, value string)
	// SetCount records an integer count.
	SetCount(name string, count int)
	// SetSize records a byte size as a human-readable string.
	SetSize(name string, bytes int64)
	// SetTotalDuration records the run's total wall-clock time. It is the
	// only metric with dedicated handling and is set exactly once.
	SetTotalDuration(total time.Duration)
	// Snapshot returns a copy of everything recorded so far.
	Snapshot() map[string]string
}

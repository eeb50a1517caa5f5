package measure

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// TotalTimeKey is the snapshot key holding the run's total duration.
const TotalTimeKey = "total_time"

// Report is the default Measure. It is safe for use from the pipeline worker
// while another goroutine reads snapshots.
type Report struct {
	mu       sync.Mutex
	values   map[string]string
	totalSet bool
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		values: make(map[string]string),
	}
}

func (r *Report) Set(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.values[name]; ok {
		return
	}
	r.values[name] = value
}

func (r *Report) SetCount(name string, count int) {
	r.Set(name, strconv.Itoa(count))
}

func (r *Report) SetSize(name string, bytes int64) {
	if bytes < 0 {
		bytes = 0
	}
	r.Set(name, humanize.Bytes(uint64(bytes)))
}

func (r *Report) SetTotalDuration(total time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.totalSet {
		return
	}
	r.totalSet = true
	r.values[TotalTimeKey] = fmt.Sprintf("%.1f seconds", total.Seconds())
}

func (r *Report) Snapshot() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}

	return out
}

var _ Measure = (*Report)(nil)

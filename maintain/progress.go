package maintain

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// ProgressTracker reports batch progress to a writer at a fixed item
// interval. Increment is safe for concurrent use; output lines are
// carriage-return rewritten so interactive terminals show a single
// updating line.
type ProgressTracker struct {
	writer   io.Writer
	total    int64
	interval int64

	done      atomic.Int64
	startedAt time.Time
}

// NewProgressTracker returns a tracker over total items that emits a
// progress line every interval completions. An interval of zero or less
// reports on every item.
func NewProgressTracker(writer io.Writer, total, interval int) *ProgressTracker {
	if interval < 1 {
		interval = 1
	}
	return &ProgressTracker{
		writer:   writer,
		total:    int64(total),
		interval: int64(interval),
	}
}

// Start resets the counter and begins timing.
func (p *ProgressTracker) Start() {
	p.done.Store(0)
	p.startedAt = time.Now()
}

// Increment records delta completed items, emitting a progress line
// whenever the count crosses a reporting interval.
func (p *ProgressTracker) Increment(delta int) {
	before := p.done.Add(int64(delta)) - int64(delta)
	after := before + int64(delta)
	if after > p.total {
		after = p.total
	}
	if after/p.interval > before/p.interval {
		p.report(after)
	}
}

// Finish forces the count to total and emits the final line.
func (p *ProgressTracker) Finish() {
	p.done.Store(p.total)
	p.report(p.total)
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	return time.Since(p.startedAt)
}

func (p *ProgressTracker) report(done int64) {
	elapsed := time.Since(p.startedAt).Seconds()
	var rate, pct float64
	if elapsed > 0 {
		rate = float64(done) / elapsed
	}
	if p.total > 0 {
		pct = float64(done) / float64(p.total) * 100
	}
	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f searches/s",
		done, p.total, pct, rate)
}

package validator

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jo-hoe/tfcheck/internal/metrics"
	"github.com/jo-hoe/tfcheck/internal/progress"
)

// Stats summarises a run. Records counts records that reached the sink.
type Stats struct {
	Files          int
	Records        int64
	Batches        int64
	Dropped        int64
	DroppedByStage map[Stage]int64
	Elapsed        time.Duration
	Done           bool
}

// Throughput returns records per second over Elapsed.
func (s Stats) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Records) / s.Elapsed.Seconds()
}

// SummaryAttrs returns s as slog key/value pairs with one dropped_<stage>
// entry per stage, zero counts included.
func (s Stats) SummaryAttrs() []any {
	attrs := []any{
		"files", s.Files,
		"records", s.Records,
		"batches", s.Batches,
		"dropped", s.Dropped,
		"elapsed", s.Elapsed.Round(time.Millisecond),
		"records_per_second", fmt.Sprintf("%.1f", s.Throughput()),
	}
	for _, stage := range Stages {
		attrs = append(attrs, "dropped_"+string(stage), s.DroppedByStage[stage])
	}
	return attrs
}

// Tracker accumulates the counters of a run. Snapshot may be called from any
// goroutine while the run is in progress.
type Tracker struct {
	metrics  *metrics.Metrics
	progress *progress.Indicator

	mu       sync.Mutex
	start    time.Time
	end      time.Time
	files    int
	dropped  map[Stage]int64
	records  atomic.Int64
	batches  atomic.Int64
	finished atomic.Bool
}

// NewTracker returns a tracker reporting to m and p. Both may be nil.
func NewTracker(m *metrics.Metrics, p *progress.Indicator) *Tracker {
	return &Tracker{
		metrics:  m,
		progress: p,
		dropped:  make(map[Stage]int64),
	}
}

func (t *Tracker) begin(files int) {
	t.mu.Lock()
	t.start = time.Now()
	t.files = files
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.Files.Set(float64(files))
	}
}

func (t *Tracker) drop(err error) {
	stage := stageOf(err)

	t.mu.Lock()
	t.dropped[stage]++
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.Dropped.WithLabelValues(string(stage)).Inc()
	}
	slog.Debug("Validator: dropped record", "stage", stage, "error", err)
}

func (t *Tracker) batch(size int) {
	records := t.records.Add(int64(size))
	t.batches.Add(1)

	if t.metrics != nil {
		t.metrics.Records.Add(float64(size))
		t.metrics.Batches.Inc()
	}
	t.progress.Advance(1, records)
}

func (t *Tracker) finish() {
	if !t.finished.CompareAndSwap(false, true) {
		return
	}
	t.mu.Lock()
	t.end = time.Now()
	t.mu.Unlock()

	t.progress.Finish()
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := Stats{
		Files:          t.files,
		Records:        t.records.Load(),
		Batches:        t.batches.Load(),
		DroppedByStage: make(map[Stage]int64, len(t.dropped)),
		Done:           t.finished.Load(),
	}
	for stage, n := range t.dropped {
		stats.DroppedByStage[stage] = n
		stats.Dropped += n
	}

	switch {
	case t.start.IsZero():
	case !t.end.IsZero():
		stats.Elapsed = t.end.Sub(t.start)
	default:
		stats.Elapsed = time.Since(t.start)
	}
	return stats
}

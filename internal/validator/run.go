// Package validator streams every record of a set of TFRecord files through
// parsing and image decoding, and reports how many made it through.
//
// Per-record failures are dropped and counted by stage; only problems that
// make the run meaningless (bad pattern, unreadable file, bad command chain)
// end it with an error.
package validator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/tfcheck/internal/commandstructure"
	"github.com/jo-hoe/tfcheck/internal/core"
	"github.com/jo-hoe/tfcheck/internal/pipeline"

	// registers the image commands in the default registry
	_ "github.com/jo-hoe/tfcheck/internal/commands"
)

// Options carries the collaborators of a run. All fields are optional.
type Options struct {
	Tracker  *Tracker
	Registry *commandstructure.CommandRegistry
}

// Run validates every file matching config.Pattern and returns the final
// counters. A lossy run still succeeds; the error is reserved for fatal
// conditions and context cancellation.
func Run(ctx context.Context, config *core.ServiceConfig, opts Options) (Stats, error) {
	tracker := opts.Tracker
	if tracker == nil {
		tracker = NewTracker(nil, nil)
	}
	registry := opts.Registry
	if registry == nil {
		registry = commandstructure.DefaultRegistry
	}

	invoker, err := commandstructure.NewCommandInvokerFromConfig(registry, config.Commands)
	if err != nil {
		return tracker.Snapshot(), fmt.Errorf("failed to build command chain: %w", err)
	}

	files, err := Enumerate(config.Pattern)
	if err != nil {
		return tracker.Snapshot(), err
	}
	tracker.begin(len(files))

	if len(files) == 0 {
		slog.Warn("Validator: no files match pattern", "pattern", config.Pattern)
		tracker.finish()
		return tracker.Snapshot(), nil
	}

	cycleLength := min(config.CycleLength, len(files))
	slog.Info("Validator: starting",
		"pattern", config.Pattern,
		"files", len(files),
		"cycle_length", cycleLength,
		"parse_workers", config.ParseWorkers,
		"batch_size", config.BatchSize,
		"commands", invoker.Names())

	proc := &processor{invoker: invoker, metrics: tracker.metrics}

	frames := pipeline.Interleave(pipeline.FromSlice(files), cycleLength, openFrames)
	if config.BufferSize > 0 {
		frames = pipeline.Buffer(frames, config.BufferSize)
	}
	samples := pipeline.IgnoreErrors(pipeline.ParallelResult(frames, config.ParseWorkers, proc.process), tracker.drop)
	batches := pipeline.Batch(samples, config.BatchSize)

	err = pipeline.Drain(batches, func(_ context.Context, batch []Sample) error {
		tracker.batch(len(batch))
		return nil
	}).Run(ctx)

	tracker.finish()
	stats := tracker.Snapshot()
	if err != nil {
		return stats, fmt.Errorf("validation aborted: %w", err)
	}
	return stats, nil
}

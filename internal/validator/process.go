package validator

import (
	"context"
	"time"

	"github.com/jo-hoe/tfcheck/internal/commands"
	"github.com/jo-hoe/tfcheck/internal/commandstructure"
	"github.com/jo-hoe/tfcheck/internal/metrics"
	"github.com/jo-hoe/tfcheck/internal/tfexample"
)

// Sample is a fully processed record. Record.Image is cleared once the
// encoded bytes have been replaced by Pixels.
type Sample struct {
	Record tfexample.Record
	Pixels *commands.RGBImage
}

// processor parses a frame and runs the image command chain over it.
type processor struct {
	invoker *commandstructure.CommandInvoker
	metrics *metrics.Metrics
}

func (p *processor) process(_ context.Context, f frame) (Sample, error) {
	if p.metrics != nil {
		defer func(start time.Time) {
			p.metrics.ObserveRecord(time.Since(start))
		}(time.Now())
	}

	record, err := tfexample.Parse(f.data)
	if err != nil {
		return Sample{}, &RecordError{Stage: StageParse, Path: f.path, Offset: f.offset, Err: err}
	}

	img, _, err := commands.DecodeImage(record.Image)
	if err != nil {
		return Sample{}, &RecordError{Stage: StageImage, Path: f.path, Offset: f.offset, Err: err}
	}

	transformed, err := p.invoker.Execute(img)
	if err != nil {
		return Sample{}, &RecordError{Stage: StageImage, Path: f.path, Offset: f.offset, Err: err}
	}

	record.Image = nil
	return Sample{Record: record, Pixels: commands.ToRGB(transformed)}, nil
}

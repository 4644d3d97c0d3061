package validator

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step that rejected a record.
type Stage string

const (
	StageFrame   Stage = "frame"
	StageParse   Stage = "parse"
	StageImage   Stage = "image"
	StageUnknown Stage = "unknown"
)

// Stages lists the stages a record can be dropped at, in pipeline order,
// followed by StageUnknown.
var Stages = []Stage{StageFrame, StageParse, StageImage, StageUnknown}

// RecordError describes a single record that was dropped. It never stops a run.
type RecordError struct {
	Stage Stage
	Path  string
	// Offset is the byte offset of the frame within Path.
	Offset int64
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: record at offset %d in %s: %v", e.Stage, e.Offset, e.Path, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func stageOf(err error) Stage {
	var recordErr *RecordError
	if errors.As(err, &recordErr) {
		return recordErr.Stage
	}
	return StageUnknown
}

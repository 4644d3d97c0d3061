package validator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jo-hoe/tfcheck/internal/pipeline"
	"github.com/jo-hoe/tfcheck/internal/tfrecord"
)

// frame is one raw record payload and where it came from.
type frame struct {
	path   string
	offset int64
	data   []byte
}

// openFrames opens path and returns an iterator over its frames. Failing to
// open a matched file is fatal for the run.
func openFrames(_ context.Context, path string) (pipeline.Iterator[pipeline.Result[frame]], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	slog.Debug("Reader: opened file", "path", path)
	return &frameIter{path: path, file: f, reader: tfrecord.NewReader(f)}, nil
}

// frameIter yields every frame of one file. A recoverable frame error yields
// a failure and reading continues with the next frame; any other error
// yields a failure and ends the file.
type frameIter struct {
	path   string
	file   *os.File
	reader *tfrecord.Reader
	done   bool
}

func (it *frameIter) Next(_ context.Context) (pipeline.Result[frame], bool, error) {
	if it.done {
		return pipeline.Result[frame]{}, false, nil
	}

	offset := it.reader.Offset()
	data, err := it.reader.Next()
	switch {
	case err == nil:
		return pipeline.Success(frame{path: it.path, offset: offset, data: data}), true, nil
	case errors.Is(err, io.EOF):
		it.done = true
		return pipeline.Result[frame]{}, false, nil
	case tfrecord.IsRecoverable(err):
		slog.Debug("Reader: skipping corrupt frame", "path", it.path, "offset", offset, "error", err)
	default:
		slog.Warn("Reader: abandoning rest of file", "path", it.path, "offset", offset, "error", err)
		it.done = true
	}
	return pipeline.Fail[frame](&RecordError{Stage: StageFrame, Path: it.path, Offset: offset, Err: err}), true, nil
}

func (it *frameIter) Close() error {
	if it.file == nil {
		return nil
	}
	err := it.file.Close()
	it.file = nil
	return err
}

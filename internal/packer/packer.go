// Package packer builds TFRecord files in the image record schema from a set
// of encoded image files and an optional metadata manifest.
package packer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jo-hoe/tfcheck/internal/commands"
	"github.com/jo-hoe/tfcheck/internal/pipeline"
	"github.com/jo-hoe/tfcheck/internal/tfexample"
	"github.com/jo-hoe/tfcheck/internal/tfrecord"
	"github.com/jo-hoe/tfcheck/internal/validator"
)

// Options configures Pack.
type Options struct {
	// Manifest supplies per-image metadata. May be nil.
	Manifest *Manifest
}

// Stats counts what Pack did with the matched files.
type Stats struct {
	Files   int
	Written int64
	// Skipped counts hidden files, directories and resized variants.
	Skipped int64
	// Dropped counts files that could not be read or are not a supported image.
	Dropped int64
}

type source struct {
	path string
	data []byte
}

// Pack writes one record per image matched by pattern to w, in file name
// order. Unreadable and undecodable files are logged and dropped. Only a bad
// pattern, a cancelled context or a failed write returns an error.
func Pack(ctx context.Context, pattern string, w io.Writer, opts Options) (Stats, error) {
	stats := Stats{}

	paths, err := validator.Enumerate(pattern)
	if err != nil {
		return stats, err
	}
	stats.Files = len(paths)
	slog.Info("Packer: starting", "pattern", pattern, "files", len(paths))

	buffered := bufio.NewWriter(w)
	out := tfrecord.NewWriter(buffered)

	candidates := pipeline.Filter(pipeline.FromSlice(paths), func(path string) bool {
		if keep := isCandidate(path); !keep {
			stats.Skipped++
			slog.Debug("Packer: skipped file", "path", path)
			return false
		}
		return true
	})
	loaded := pipeline.Map(candidates, readSource)
	records := pipeline.MapResult(loaded, func(_ context.Context, src source) (tfexample.Record, error) {
		return buildRecord(src, opts.Manifest.lookup(src.path))
	})
	kept := pipeline.IgnoreErrors(records, func(err error) {
		stats.Dropped++
		slog.Warn("Packer: dropped file", "error", err)
	})
	logged := pipeline.Tap(kept, func(_ context.Context, record tfexample.Record) error {
		slog.Debug("Packer: packing image",
			"img_src", record.ImgSrc,
			"width", record.Width,
			"height", record.Height)
		return nil
	})

	err = pipeline.ForEach(ctx, logged, func(_ context.Context, record tfexample.Record) error {
		if err := out.Write(tfexample.Marshal(record)); err != nil {
			return err
		}
		stats.Written++
		return nil
	})
	if err != nil {
		return stats, err
	}
	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}

	slog.Info("Packer: done",
		"files", stats.Files,
		"written", stats.Written,
		"skipped", stats.Skipped,
		"dropped", stats.Dropped)
	return stats, nil
}

func isCandidate(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") || !isCanonical(path) {
		return false
	}
	info, err := os.Stat(path)
	// stat failures surface as a drop when the file is read
	return err != nil || !info.IsDir()
}

func readSource(ctx context.Context, path string) (pipeline.Result[source], error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Result[source]{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Fail[source](err), nil
	}
	return pipeline.Success(source{path: path, data: data}), nil
}

func buildRecord(src source, meta Metadata) (tfexample.Record, error) {
	cfg, _, err := commands.DecodeImageConfig(src.data)
	if err != nil {
		return tfexample.Record{}, fmt.Errorf("%s: %w", src.path, err)
	}

	title := meta.Title
	if title == "" {
		title = titleFromPath(src.path)
	}
	imgSrc := meta.ImgSrc
	if imgSrc == "" {
		imgSrc = filepath.ToSlash(src.path)
	}

	return tfexample.Record{
		Image:        src.data,
		License:      meta.License,
		Tags:         meta.Tags,
		Title:        cleanTitle(title),
		Description:  cleanDescription(meta.Description),
		Owner:        meta.Owner,
		ImgSrc:       imgSrc,
		CommentCount: int64(meta.CommentCount),
		FaveCount:    int64(meta.FaveCount),
		ViewCount:    int64(meta.ViewCount),
		Height:       int64(cfg.Height),
		Width:        int64(cfg.Width),
	}, nil
}

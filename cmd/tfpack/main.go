package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jo-hoe/tfcheck/internal/core"
	"github.com/jo-hoe/tfcheck/internal/packer"
)

func main() {
	if len(os.Args) < 3 || len(os.Args) > 4 {
		fmt.Fprintf(os.Stderr, "usage: %s <image pattern> <output file> [manifest]\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}

	slog.SetDefault(core.NewLogger(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))

	var manifestPath string
	if len(os.Args) == 4 {
		manifestPath = os.Args[3]
	}
	if err := run(os.Args[1], os.Args[2], manifestPath); err != nil {
		slog.Error("tfpack failed", "error", err)
		os.Exit(1)
	}
}

func run(pattern, output, manifestPath string) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := packer.Options{}
	if manifestPath != "" {
		if opts.Manifest, err = packer.LoadManifest(manifestPath); err != nil {
			return err
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	_, err = packer.Pack(ctx, pattern, f, opts)
	return err
}

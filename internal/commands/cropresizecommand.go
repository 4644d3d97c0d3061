package commands

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/jo-hoe/tfcheck/internal/commandstructure"
)

// DefaultTargetSize is the edge length images are resampled to by default.
const DefaultTargetSize = 256

// CropBox is a crop window in coordinates normalized to the image size.
type CropBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ComputeCropBox returns the centered square window for a width×height image.
// With c = max(width, height) the window spans height/c horizontally and
// width/c vertically.
func ComputeCropBox(width, height int) CropBox {
	c := float64(max(width, height))
	if c == 0 {
		return CropBox{}
	}
	wn := float64(height) / c
	hn := float64(width) / c
	return CropBox{
		X:      (1 - wn) / 2,
		Y:      (1 - hn) / 2,
		Width:  wn,
		Height: hn,
	}
}

// CenterCropResizeParams represents typed parameters for the crop-and-resize command
type CenterCropResizeParams struct {
	Size int
}

// NewCenterCropResizeParamsFromMap creates CenterCropResizeParams from a generic map
func NewCenterCropResizeParamsFromMap(params map[string]any) (*CenterCropResizeParams, error) {
	size := commandstructure.GetIntParam(params, "size", DefaultTargetSize)
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", size)
	}
	return &CenterCropResizeParams{Size: size}, nil
}

// CenterCropResizeCommand crops the centered square of an image and resamples
// it to Size×Size in a single bilinear pass.
type CenterCropResizeCommand struct {
	name   string
	params *CenterCropResizeParams
}

// NewCenterCropResizeCommand creates a new crop-and-resize command from configuration parameters
func NewCenterCropResizeCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewCenterCropResizeParamsFromMap(params)
	if err != nil {
		return nil, err
	}
	return &CenterCropResizeCommand{
		name:   "CenterCropResizeCommand",
		params: typedParams,
	}, nil
}

// NewCenterCropResizeCommandWithSize creates a new crop-and-resize command from a concrete size
func NewCenterCropResizeCommandWithSize(size int) (*CenterCropResizeCommand, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive, got %d", size)
	}
	return &CenterCropResizeCommand{
		name:   "CenterCropResizeCommand",
		params: &CenterCropResizeParams{Size: size},
	}, nil
}

// Name returns the command name
func (c *CenterCropResizeCommand) Name() string {
	return c.name
}

// Execute samples the ComputeCropBox window of img into a Size×Size canvas
func (c *CenterCropResizeCommand) Execute(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("CenterCropResizeCommand: %w", ErrEmptyImage)
	}

	box := ComputeCropBox(bounds.Dx(), bounds.Dy())
	win := boxWindow(bounds, box)
	size := c.params.Size

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("CenterCropResizeCommand: cropping",
			"original_width", bounds.Dx(),
			"original_height", bounds.Dy(),
			"crop_box", []float64{box.X, box.Y, box.Width, box.Height},
			"cover_rect", win.Cover.String(),
			"target_size", size)
	}

	return resample(img, win, size, size), nil
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("CenterCropResizeCommand", NewCenterCropResizeCommand); err != nil {
		panic(fmt.Sprintf("failed to register CenterCropResizeCommand: %v", err))
	}
}

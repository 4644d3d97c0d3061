package commands

import (
	"fmt"
	"image"

	"github.com/jo-hoe/tfcheck/internal/commandstructure"
)

// ScaleParams represents typed parameters for scale command
type ScaleParams struct {
	Height int
	Width  int
}

// NewScaleParamsFromMap creates ScaleParams from a generic map
func NewScaleParamsFromMap(params map[string]any) (*ScaleParams, error) {
	if err := commandstructure.ValidateRequiredParams(params, []string{"height", "width"}); err != nil {
		return nil, err
	}

	height := commandstructure.GetIntParam(params, "height", 0)
	width := commandstructure.GetIntParam(params, "width", 0)

	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}

	return &ScaleParams{
		Height: height,
		Width:  width,
	}, nil
}

// ScaleCommand resamples the whole image to the target dimensions without
// cropping, ignoring aspect ratio
type ScaleCommand struct {
	name   string
	params *ScaleParams
}

// NewScaleCommand creates a new scale command from configuration parameters
func NewScaleCommand(params map[string]any) (commandstructure.Command, error) {
	typedParams, err := NewScaleParamsFromMap(params)
	if err != nil {
		return nil, err
	}

	command, err := NewScaleCommandWithParams(typedParams.Height, typedParams.Width)
	if err != nil {
		return nil, err
	}
	return command, nil
}

// NewScaleCommandWithParams creates a new scale command from concrete typed parameters
func NewScaleCommandWithParams(height, width int) (*ScaleCommand, error) {
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	if width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %d", width)
	}

	return &ScaleCommand{
		name: "ScaleCommand",
		params: &ScaleParams{
			Height: height,
			Width:  width,
		},
	}, nil
}

// Name returns the command name
func (c *ScaleCommand) Name() string {
	return c.name
}

// Execute scales the image to the target dimensions
func (c *ScaleCommand) Execute(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("ScaleCommand: %w", ErrEmptyImage)
	}
	full := boxWindow(bounds, CropBox{Width: 1, Height: 1})
	return resample(img, full, c.params.Width, c.params.Height), nil
}

func init() {
	// Register the command in the default registry
	if err := commandstructure.DefaultRegistry.Register("ScaleCommand", NewScaleCommand); err != nil {
		panic(fmt.Sprintf("failed to register ScaleCommand: %v", err))
	}
}

package commands

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// maxDecodePixels bounds the canvas a header may ask for before any pixel
// data is allocated.
const maxDecodePixels = 1 << 28

var (
	// ErrEmptyImage is returned for empty payloads and zero-area images.
	ErrEmptyImage = errors.New("empty image")
	// ErrImageTooLarge is returned when the declared dimensions exceed maxDecodePixels.
	ErrImageTooLarge = errors.New("image dimensions too large")
	// ErrUnsupportedFormat is returned for formats other than BMP, GIF, JPEG and PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// supportedFormats are the formats DecodeImage accepts. Decoders
// registered elsewhere in the process (TIFF, WebP, ...) are rejected.
var supportedFormats = map[string]bool{
	"bmp":  true,
	"gif":  true,
	"jpeg": true,
	"png":  true,
}

// DecodeImageConfig reads the header of an encoded image and checks that the
// format is supported and the dimensions are usable. No pixel data is decoded.
func DecodeImageConfig(data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if !supportedFormats[format] {
		return cfg, format, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, format, fmt.Errorf("%w: %dx%d %s", ErrEmptyImage, cfg.Width, cfg.Height, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxDecodePixels {
		return cfg, format, fmt.Errorf("%w: %dx%d %s", ErrImageTooLarge, cfg.Width, cfg.Height, format)
	}
	return cfg, format, nil
}

// DecodeImage decodes an encoded raster image and returns it together with the
// detected format name. Animated formats yield their first frame only.
func DecodeImage(data []byte) (image.Image, string, error) {
	if _, format, err := DecodeImageConfig(data); err != nil {
		return nil, format, err
	}

	// image.Decode returns the first frame for GIF, which is exactly the
	// single still frame we want.
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("failed to decode %s image: %w", format, err)
	}
	return img, format, nil
}

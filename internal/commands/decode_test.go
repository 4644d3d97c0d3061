package commands

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestDecodeImage_Formats(t *testing.T) {
	src := stripedImage(40, 20)

	encode := map[string]func(*bytes.Buffer) error{
		"png": func(b *bytes.Buffer) error { b.Write(encodePNG(t, src)); return nil },
		"jpeg": func(b *bytes.Buffer) error {
			return jpeg.Encode(b, src, &jpeg.Options{Quality: 90})
		},
		"bmp": func(b *bytes.Buffer) error { return bmp.Encode(b, src) },
	}

	for format, fn := range encode {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := fn(&buf); err != nil {
				t.Fatalf("encode %s: %v", format, err)
			}
			img, got, err := DecodeImage(buf.Bytes())
			if err != nil {
				t.Fatalf("DecodeImage failed: %v", err)
			}
			if got != format {
				t.Errorf("Expected format %s, got %s", format, got)
			}
			if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
				t.Errorf("Expected 40x20, got %v", img.Bounds())
			}
		})
	}
}

func TestDecodeImage_RejectsOtherFormats(t *testing.T) {
	var tiffData bytes.Buffer
	if err := tiff.Encode(&tiffData, stripedImage(20, 10), nil); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}

	// RIFF container with a lossless WebP chunk header
	webpData := append([]byte("RIFF\x1a\x00\x00\x00WEBPVP8L\x0d\x00\x00\x00\x2f"), make([]byte, 16)...)

	tests := []struct {
		name string
		data []byte
	}{
		{"tiff", tiffData.Bytes()},
		{"webp", webpData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, _, err := DecodeImage(tt.data)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if img != nil {
				t.Error("Expected no image")
			}
		})
	}

	// the tiff decoder is registered in this test binary, so the rejection
	// must come from the format check rather than a missing decoder
	_, format, err := DecodeImage(tiffData.Bytes())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat for tiff, got %v", err)
	}
	if format != "tiff" {
		t.Errorf("Expected detected format tiff, got %q", format)
	}
}

func TestDecodeImage_AnimatedGIFFirstFrame(t *testing.T) {
	palette := color.Palette{color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}}
	frame := func(idx uint8) *image.Paletted {
		p := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		for i := range p.Pix {
			p.Pix[i] = idx
		}
		return p
	}
	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image: []*image.Paletted{frame(0), frame(1)},
		Delay: []int{10, 10},
	})
	if err != nil {
		t.Fatalf("gif.EncodeAll: %v", err)
	}

	img, format, err := DecodeImage(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if format != "gif" {
		t.Errorf("Expected gif, got %s", format)
	}
	r, g, b := ToRGB(img).At(4, 4)
	if r != 255 || g != 0 || b != 0 {
		t.Errorf("Expected first (red) frame, got (%d,%d,%d)", r, g, b)
	}
}

func TestDecodeImage_Failures(t *testing.T) {
	valid := encodePNG(t, stripedImage(16, 16))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not an image")},
		{"truncated png", valid[:len(valid)/2]},
		{"png signature only", valid[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeImage(tt.data); err == nil {
				t.Error("Expected decode error")
			}
		})
	}
}

func TestDecodeImage_EmptyIsSentinel(t *testing.T) {
	if _, _, err := DecodeImage([]byte{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("Expected ErrEmptyImage, got %v", err)
	}
}

func TestDecodeImageConfig(t *testing.T) {
	cfg, format, err := DecodeImageConfig(encodePNG(t, stripedImage(40, 20)))
	if err != nil {
		t.Fatalf("DecodeImageConfig failed: %v", err)
	}
	if format != "png" || cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("Expected 40x20 png, got %dx%d %s", cfg.Width, cfg.Height, format)
	}

	if _, _, err := DecodeImageConfig([]byte("not an image")); err == nil {
		t.Error("Expected error for garbage input")
	}
}

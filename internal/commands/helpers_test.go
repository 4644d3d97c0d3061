package commands

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// stripedImage fills a w×h canvas with three bands along the longer axis:
// the two outer bands are red and blue, the centered square is green.
func stripedImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	side := min(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos, lo := x, (w-side)/2
			if h > w {
				pos, lo = y, (h-side)/2
			}
			c := color.RGBA{0, 255, 0, 255}
			switch {
			case pos < lo:
				c = color.RGBA{255, 0, 0, 255}
			case pos >= lo+side:
				c = color.RGBA{0, 0, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func noiseImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	seed := uint32(2463534242)
	for i := range img.Pix {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		img.Pix[i] = uint8(seed)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func encodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

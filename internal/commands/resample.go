package commands

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// snapEpsilon absorbs float error when a window edge lands on a pixel edge.
const snapEpsilon = 1e-9

// window is a source region in absolute, possibly fractional, pixel
// coordinates together with the integer rectangle covering it.
type window struct {
	X0, Y0, X1, Y1 float64
	Cover          image.Rectangle
}

// boxWindow maps a normalized box onto bounds.
func boxWindow(bounds image.Rectangle, box CropBox) window {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	win := window{
		X0: snap(float64(bounds.Min.X) + box.X*w),
		Y0: snap(float64(bounds.Min.Y) + box.Y*h),
		X1: snap(float64(bounds.Min.X) + (box.X+box.Width)*w),
		Y1: snap(float64(bounds.Min.Y) + (box.Y+box.Height)*h),
	}
	win.Cover = image.Rect(
		int(math.Floor(win.X0)), int(math.Floor(win.Y0)),
		int(math.Ceil(win.X1)), int(math.Ceil(win.Y1)),
	).Intersect(bounds)
	return win
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		return r
	}
	return v
}

// resample draws win of src onto a new width×height canvas in one bilinear
// pass. Sampling never reads outside win.Cover.
func resample(src image.Image, win window, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	sx := float64(width) / (win.X1 - win.X0)
	sy := float64(height) / (win.Y1 - win.Y0)
	s2d := f64.Aff3{
		sx, 0, -win.X0 * sx,
		0, sy, -win.Y0 * sy,
	}
	draw.BiLinear.Transform(dst, s2d, src, win.Cover, draw.Src, nil)
	return dst
}

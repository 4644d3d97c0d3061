package commands

import (
	"image"
	"image/color"
)

// Channels is the number of color channels kept per pixel.
const Channels = 3

// RGBImage is a dense height×width×3 pixel grid without alpha.
type RGBImage struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the red, green and blue values at (x, y).
func (p *RGBImage) At(x, y int) (r, g, b uint8) {
	i := (y*p.Width + x) * Channels
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// ToRGB flattens img into an RGBImage. Alpha is discarded; color values are
// taken un-premultiplied.
func ToRGB(img image.Image) *RGBImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := &RGBImage{Width: w, Height: h, Pix: make([]uint8, w*h*Channels)}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			row := rgba.Pix[(y+bounds.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(bounds.Min.X-rgba.Rect.Min.X)*4:]
			dst := out.Pix[y*w*Channels:]
			for x := 0; x < w; x++ {
				s := row[x*4 : x*4+4]
				d := dst[x*Channels : x*Channels+Channels]
				if s[3] == 0xff {
					d[0], d[1], d[2] = s[0], s[1], s[2]
					continue
				}
				c := color.NRGBAModel.Convert(color.RGBA{s[0], s[1], s[2], s[3]}).(color.NRGBA)
				d[0], d[1], d[2] = c.R, c.G, c.B
			}
		}
		return out
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = c.R, c.G, c.B
			i += Channels
		}
	}
	return out
}

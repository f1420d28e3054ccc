package convert

import (
	"image"
	"image/color"

	"epdgfx/internal/gfx"
)

// PackImage converts img into a packed 1bpp ink mask suitable for
// gfx.MonoBitmapImage.
//
// Packing rules:
//
//   - rows are y-major, MSB-first, stride = ceil(width / 8):
//     byteIndex = y * stride + (x >> 3)
//     mask      = 0x80 >> (x & 7)
//   - a set bit is ink. Pixels that are mostly transparent (alpha < 128)
//     or bright (luma >= 128) stay clear.
func PackImage(img image.Image) (data []byte, stride int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride = gfx.Stride(w, 1)
	data = make([]byte, stride*h)

	nrgba, direct := img.(*image.NRGBA)
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			var c color.NRGBA
			if direct {
				// Read the pixel buffer directly to avoid At() per pixel.
				i := nrgba.PixOffset(b.Min.X+px, b.Min.Y+py)
				c = color.NRGBA{R: nrgba.Pix[i], G: nrgba.Pix[i+1], B: nrgba.Pix[i+2], A: nrgba.Pix[i+3]}
			} else {
				c = color.NRGBAModel.Convert(img.At(b.Min.X+px, b.Min.Y+py)).(color.NRGBA)
			}
			if isInk(c) {
				data[py*stride+(px>>3)] |= byte(0x80 >> (px & 7))
			}
		}
	}
	return data, stride
}

// isInk decides whether a pixel is drawn on the monochrome panel.
//
// Luma Y = 0.299R + 0.587G + 0.114B; dark opaque pixels (Y < 128) are ink.
func isInk(c color.NRGBA) bool {
	if c.A < 128 {
		return false
	}
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return 0.299*r+0.587*g+0.114*b < 128
}

package assets

import (
	"fmt"
	"math"

	"epdgfx/internal/gfx"
)

// EncodeRLE converts a packed bitmap into the run-length format. Every
// row starts with a run of the color of its first pixel; runs longer than
// gfx.MaxRunLength are split.
func EncodeRLE(img gfx.MonoBitmapImage) (gfx.MonoRLEImage, error) {
	data := make([]uint16, img.Height+1)
	for y := 0; y < img.Height; y++ {
		if len(data) > math.MaxUint16 {
			return gfx.MonoRLEImage{}, fmt.Errorf("assets: rle image %dx%d needs more than %d words", img.Width, img.Height, math.MaxUint16)
		}
		data[y] = uint16(len(data))

		row := img.Data[y*img.Stride:]
		if img.Width == 0 {
			continue
		}
		ink, run := bit(row, 0), 0
		for x := 0; x < img.Width; x++ {
			if b := bit(row, x); b != ink {
				data = appendRun(data, ink, run)
				ink, run = b, 0
			}
			run++
		}
		data = appendRun(data, ink, run)
	}
	if len(data) > math.MaxUint16 {
		return gfx.MonoRLEImage{}, fmt.Errorf("assets: rle image %dx%d needs more than %d words", img.Width, img.Height, math.MaxUint16)
	}
	data[img.Height] = uint16(len(data))

	return gfx.MonoRLEImage{Data: data, Width: img.Width, Height: img.Height}, nil
}

func appendRun(data []uint16, ink bool, n int) []uint16 {
	for ; n > gfx.MaxRunLength; n -= gfx.MaxRunLength {
		data = append(data, gfx.Run(ink, gfx.MaxRunLength))
	}
	if n > 0 {
		data = append(data, gfx.Run(ink, n))
	}
	return data
}

func bit(row []byte, x int) bool {
	return row[x>>3]&(0x80>>(x&7)) != 0
}

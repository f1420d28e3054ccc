package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"

	"epdgfx/internal/convert"
	"epdgfx/internal/gfx"
	appLog "epdgfx/internal/log"
)

// LoadImage decodes a PNG or BMP picture and packs it into a bitmap.
// Dark opaque pixels become ink.
func LoadImage(r io.Reader) (gfx.MonoBitmapImage, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return gfx.MonoBitmapImage{}, fmt.Errorf("assets: decode image: %w", err)
	}
	data, stride := convert.PackImage(img)
	b := img.Bounds()
	appLog.Debug("assets: image loaded", "format", format, "width", b.Dx(), "height", b.Dy())
	return gfx.MonoBitmapImage{Data: data, Width: b.Dx(), Height: b.Dy(), Stride: stride}, nil
}

// LoadImageFile is LoadImage on the file at path.
func LoadImageFile(path string) (gfx.MonoBitmapImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return gfx.MonoBitmapImage{}, fmt.Errorf("assets: open image: %w", err)
	}
	defer f.Close()
	return LoadImage(f)
}

package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"epdgfx/internal/gfx"
)

// Pack renders f part by part, rows output rows at a time, into one
// packed buffer laid out exactly as the panel receives it.
func Pack(f *gfx.Frame, rows int) []byte {
	h, stride := f.Height(), f.Stride()
	out := make([]byte, stride*h)
	if len(out) == 0 {
		return out
	}
	rows = min(max(rows, 1), h)
	for start := 0; start < h; start += rows {
		n := min(rows, h-start)
		f.DrawPart(start, out[start*stride:(start+n)*stride])
	}
	return out
}

// Rasterize renders f with Pack and unpacks the result into an 8-bit
// gray image where white pixels are 255.
func Rasterize(f *gfx.Frame, rows int) *image.Gray {
	w, h := f.Width(), f.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	packed := Pack(f, rows)
	stride := f.Stride()
	for y := 0; y < h; y++ {
		src := packed[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			if src[x>>3]&(0x80>>(x&7)) != 0 {
				dst[x] = 0xff
			}
		}
	}
	return img
}

// WritePNG encodes img to path via a temp file and rename, creating the
// parent directory if needed.
func WritePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("convert: encode png: %w", err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// WriteRaw stores packed panel bytes at path.
func WriteRaw(path string, data []byte) error {
	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("convert: create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".epdgfx-*.tmp")
	if err != nil {
		return fmt.Errorf("convert: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("convert: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("convert: write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("convert: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("convert: rename to %s: %w", path, err)
	}
	return nil
}

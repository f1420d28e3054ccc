package gfx

import "fmt"

// Image is a static picture that can be blitted at an anchor point.
type Image interface {
	Size() (width, height int)
	// RenderTransparent draws the image with its top left corner at (x, y).
	RenderTransparent(r *Renderer, clip Clip, x, y int, color Color)
}

// MonoBitmapImage is a packed 1 bit per pixel picture, MSB first, with
// rows Stride bytes apart. A set bit is ink.
type MonoBitmapImage struct {
	Data   []byte
	Width  int
	Height int
	Stride int
}

func (m MonoBitmapImage) Size() (int, int) { return m.Width, m.Height }

// RenderRow draws image row row at canvas row y+row.
func (m MonoBitmapImage) RenderRow(r *Renderer, clip Clip, x, y, row int, color Color) {
	if row < 0 || row >= m.Height {
		return
	}
	i := row * m.Stride
	r.RenderBitmapRow(clip, y+row, x, x+m.Width, m.Data[i:i+m.Stride], color)
}

func (m MonoBitmapImage) RenderTransparent(r *Renderer, clip Clip, x, y int, color Color) {
	c := r.Visible(clip)
	first, last := max(0, c.top-y), min(m.Height, c.bottom-y)
	for row := first; row < last; row++ {
		m.RenderRow(r, clip, x, y, row, color)
	}
}

const (
	runFlag       = 0x8000
	runLengthMask = 0x7fff

	// MaxRunLength is the longest run a single RLE word can hold.
	MaxRunLength = runLengthMask
)

// Run encodes one RLE word.
func Run(ink bool, length int) uint16 {
	w := uint16(length) & runLengthMask
	if ink {
		w |= runFlag
	}
	return w
}

// MonoRLEImage is a run-length encoded 1 bit per pixel picture.
//
// Data starts with Height+1 word offsets into Data itself; row y is the
// run list Data[Data[y]:Data[y+1]]. Each run is flag<<15 | length and the
// runs of a row add up to Width.
type MonoRLEImage struct {
	Data   []uint16
	Width  int
	Height int
}

func (m MonoRLEImage) Size() (int, int) { return m.Width, m.Height }

// Row returns the runs of image row y.
func (m MonoRLEImage) Row(y int) []uint16 {
	return m.Data[m.Data[y]:m.Data[y+1]]
}

func (m MonoRLEImage) RenderTransparent(r *Renderer, clip Clip, x, y int, color Color) {
	c := r.Visible(clip)
	first, last := max(0, c.top-y), min(m.Height, c.bottom-y)
	for row := first; row < last; row++ {
		r.RenderRLERow(clip, x, y+row, m.Row(row), color)
	}
}

// Validate checks the table layout. Rendering never calls it; it is meant
// for asset tooling and tests.
func (m MonoRLEImage) Validate() error {
	if len(m.Data) < m.Height+1 {
		return fmt.Errorf("gfx: rle header needs %d words, have %d", m.Height+1, len(m.Data))
	}
	if int(m.Data[0]) != m.Height+1 {
		return fmt.Errorf("gfx: rle first offset is %d, want %d", m.Data[0], m.Height+1)
	}
	for y := 0; y < m.Height; y++ {
		start, end := int(m.Data[y]), int(m.Data[y+1])
		if end < start || end > len(m.Data) {
			return fmt.Errorf("gfx: rle row %d offsets [%d, %d) out of order", y, start, end)
		}
		sum := 0
		for _, run := range m.Data[start:end] {
			sum += int(run & runLengthMask)
		}
		if sum != m.Width {
			return fmt.Errorf("gfx: rle row %d covers %d pixels, want %d", y, sum, m.Width)
		}
	}
	if int(m.Data[m.Height]) != len(m.Data) {
		return fmt.Errorf("gfx: rle has %d trailing words", len(m.Data)-int(m.Data[m.Height]))
	}
	return nil
}

package gfx

import "testing"

// pixel reads bit x of a packed row.
func pixel(row []byte, x int) bool {
	return row[x>>3]&(0x80>>(x&7)) != 0
}

// renderWhole renders the frame in a single part.
func renderWhole(t testing.TB, f *Frame) []byte {
	t.Helper()
	buf := make([]byte, f.Stride()*f.Height())
	f.DrawPart(0, buf)
	return buf
}

// renderChunks renders the frame in parts of the given row counts, cycling
// through sizes until the canvas is covered.
func renderChunks(t testing.TB, f *Frame, sizes []int) []byte {
	t.Helper()
	stride := f.Stride()
	out := make([]byte, stride*f.Height())
	for row, i := 0, 0; row < f.Height(); i++ {
		n := min(sizes[i%len(sizes)], f.Height()-row)
		part := make([]byte, stride*n)
		f.DrawPart(row, part)
		copy(out[row*stride:], part)
		row += n
	}
	return out
}

// testFont has glyphs a, b, c (bitmaps) and x (RLE).
func testFont() *Font {
	return &Font{
		Ascender:  4,
		Descender: 2,
		Glyphs: []Glyph{
			{Image: MonoBitmapImage{Data: []byte{0xc0, 0xc0}, Width: 2, Height: 2, Stride: 1}, Left: 1, Top: 3, Advance: 3},
			{Image: MonoBitmapImage{Data: []byte{0xe0, 0xa0, 0xe0, 0x00}, Width: 3, Height: 4, Stride: 1}, Left: 0, Top: 4, Advance: 4},
			{Image: MonoBitmapImage{Data: []byte{0xf8, 0x00, 0x88, 0x00, 0xf8, 0x00}, Width: 5, Height: 3, Stride: 2}, Left: 0, Top: 2, Advance: 5},
			{Image: testRLE(), Left: -1, Top: 5, Advance: 5},
		},
		Index: NewGlyphIndex([]rune("abcx")),
	}
}

// testRLE is a 6x3 image:
//
//	##....
//	.####.
//	######
func testRLE() MonoRLEImage {
	return MonoRLEImage{
		Data: []uint16{
			4, 6, 9, 10,
			Run(true, 2), Run(false, 4),
			Run(false, 1), Run(true, 4), Run(false, 1),
			Run(true, 6),
		},
		Width:  6,
		Height: 3,
	}
}

// testBitmap is testRLE as a packed bitmap.
func testBitmap() MonoBitmapImage {
	return MonoBitmapImage{Data: []byte{0xc0, 0x78, 0xfc}, Width: 6, Height: 3, Stride: 1}
}

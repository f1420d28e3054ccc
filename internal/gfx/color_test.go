package gfx

import (
	"bytes"
	"math/rand"
	"testing"
	"testing/quick"
)

// TestFillExact verifies that Fill touches exactly [left, right).
func TestFillExact(t *testing.T) {
	property := func(w, a, b uint8, black bool) bool {
		width := int(w)%96 + 1
		left, right := int(a)%(width+1), int(b)%(width+1)
		if left > right {
			left, right = right, left
		}
		color, before := White, byte(0x00)
		if black {
			color, before = Black, 0xff
		}

		row := bytes.Repeat([]byte{before}, Stride(width, 1))
		color.Fill(row, left, right)

		for x := 0; x < width; x++ {
			inside := x >= left && x < right
			want := inside == (color == White)
			if pixel(row, x) != want {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestFillBytes(t *testing.T) {
	tests := []struct {
		name        string
		before      byte
		left, right int
		color       BlackWhite
		want        []byte
	}{
		{"white across bytes", 0x00, 4, 16, White, []byte{0x0f, 0xff, 0x00, 0x00}},
		{"black within byte", 0xff, 2, 6, Black, []byte{0xc3, 0xff, 0xff, 0xff}},
		{"white within byte", 0x00, 2, 6, White, []byte{0x3c, 0x00, 0x00, 0x00}},
		{"aligned end", 0x00, 8, 24, White, []byte{0x00, 0xff, 0xff, 0x00}},
		{"to the last bit", 0x00, 31, 32, White, []byte{0x00, 0x00, 0x00, 0x01}},
		{"black ragged", 0xff, 3, 29, Black, []byte{0xe0, 0x00, 0x00, 0x07}},
		{"empty", 0x00, 9, 9, White, []byte{0x00, 0x00, 0x00, 0x00}},
		{"inverted", 0x00, 9, 4, White, []byte{0x00, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := bytes.Repeat([]byte{tt.before}, 4)
			tt.color.Fill(row, tt.left, tt.right)
			if !bytes.Equal(row, tt.want) {
				t.Errorf("Fill(%d, %d) = % x, want % x", tt.left, tt.right, row, tt.want)
			}
		})
	}
}

// TestRenderBitmapRowExhaustive walks every destination offset and source
// span of a small row, covering the single byte, shifted and aligned paths.
func TestRenderBitmapRowExhaustive(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const srcWidth, dstWidth = 27, 48
	src := make([]byte, Stride(srcWidth, 1))
	rnd.Read(src)
	background := make([]byte, Stride(dstWidth, 1))
	rnd.Read(background)

	for _, color := range []BlackWhite{White, Black} {
		for x := -9; x <= dstWidth; x++ {
			for left := 0; left <= srcWidth; left++ {
				for right := left; right <= srcWidth; right++ {
					if x+left < 0 || x+right > dstWidth {
						continue
					}
					row := bytes.Clone(background)
					color.RenderBitmapRow(row, x, src, left, right)

					for d := 0; d < dstWidth; d++ {
						want := pixel(background, d)
						if s := d - x; s >= left && s < right {
							want = pixel(src, s) == (color == White)
						}
						if pixel(row, d) != want {
							t.Fatalf("%v x=%d [%d,%d): pixel %d = %v, want %v",
								color, x, left, right, d, pixel(row, d), want)
						}
					}
				}
			}
		}
	}
}

func TestMirrorX(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for width := 1; width <= 90; width++ {
		stride := Stride(width, 1)
		orig := make([]byte, stride)
		rnd.Read(orig)

		once := bytes.Clone(orig)
		Mono.MirrorX(once, width)
		for x := 0; x < width; x++ {
			if pixel(once, x) != pixel(orig, width-1-x) {
				t.Fatalf("width %d: mirrored pixel %d = %v, want %v", width, x, pixel(once, x), pixel(orig, width-1-x))
			}
		}

		twice := bytes.Clone(once)
		Mono.MirrorX(twice, width)
		for x := 0; x < width; x++ {
			if pixel(twice, x) != pixel(orig, x) {
				t.Fatalf("width %d: round trip pixel %d changed", width, x)
			}
		}

		// Padding is settled after the first pass.
		thrice := bytes.Clone(twice)
		Mono.MirrorX(thrice, width)
		if !bytes.Equal(thrice, once) {
			t.Fatalf("width %d: second round trip % x, want % x", width, thrice, once)
		}
	}
}

func TestMirrorXOnlyTouchesStride(t *testing.T) {
	row := []byte{0x80, 0x00, 0xaa}
	Mono.MirrorX(row, 12)
	want := []byte{0x00, 0x10, 0xaa}
	if !bytes.Equal(row, want) {
		t.Errorf("MirrorX = % x, want % x", row, want)
	}
}

func TestStride(t *testing.T) {
	tests := []struct{ width, bpp, want int }{
		{0, 1, 0}, {1, 1, 1}, {8, 1, 1}, {9, 1, 2}, {400, 1, 50}, {1304, 1, 163}, {5, 2, 2},
	}
	for _, tt := range tests {
		if got := Stride(tt.width, tt.bpp); got != tt.want {
			t.Errorf("Stride(%d, %d) = %d, want %d", tt.width, tt.bpp, got, tt.want)
		}
	}
}

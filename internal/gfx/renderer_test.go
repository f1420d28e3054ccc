package gfx

import (
	"bytes"
	"testing"
)

func TestRendererFill(t *testing.T) {
	tests := []struct {
		name        string
		before      byte
		clip        [2]int
		left, right int
		color       BlackWhite
		want        []byte
	}{
		{"white", 0x00, [2]int{0, 32}, 4, 16, White, []byte{0x0f, 0xff, 0x00, 0x00}},
		{"white into third byte", 0x00, [2]int{0, 32}, 4, 20, White, []byte{0x0f, 0xff, 0xf0, 0x00}},
		{"white single byte", 0x00, [2]int{0, 32}, 2, 6, White, []byte{0x3c, 0x00, 0x00, 0x00}},
		{"black on black", 0x00, [2]int{0, 32}, 2, 6, Black, []byte{0x00, 0x00, 0x00, 0x00}},
		{"black on white", 0xff, [2]int{0, 32}, 2, 6, Black, []byte{0xc3, 0xff, 0xff, 0xff}},
		{"empty span", 0x00, [2]int{0, 32}, 5, 5, White, []byte{0x00, 0x00, 0x00, 0x00}},
		{"left of canvas", 0x00, [2]int{0, 32}, -5, -4, White, []byte{0x00, 0x00, 0x00, 0x00}},
		{"clipped left", 0x00, [2]int{9, 32}, 4, 12, White, []byte{0x00, 0x70, 0x00, 0x00}},
		{"inverted clip", 0x00, [2]int{6, 5}, 4, 12, White, []byte{0x00, 0x00, 0x00, 0x00}},
		{"right half", 0x00, [2]int{0, 32}, 16, 32, White, []byte{0x00, 0x00, 0xff, 0xff}},
		{"past the canvas", 0x00, [2]int{0, 64}, 24, 40, White, []byte{0x00, 0x00, 0x00, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.Repeat([]byte{tt.before}, 4)
			NewFrame(32, 1, func(r *Renderer) {
				clip := r.FullFrame().ClipLeft(tt.clip[0])
				if tt.clip[1] <= 32 {
					clip = clip.ClipRight(tt.clip[1])
				} else {
					clip = NewClip(tt.clip[0], 0, tt.clip[1], 1)
				}
				r.Fill(clip, tt.left, 0, tt.right, 1, tt.color)
			}).DrawPart(0, buf)

			if !bytes.Equal(buf, tt.want) {
				t.Errorf("got % x, want % x", buf, tt.want)
			}
		})
	}
}

func TestRendererFillRows(t *testing.T) {
	f := NewFrame(8, 6, func(r *Renderer) {
		r.Fill(r.FullFrame(), 0, 1, 8, 3, White)
	})

	got := renderWhole(t, f)
	want := []byte{0x00, 0xff, 0xff, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}

	f.SetMirrorY(true)
	got = renderWhole(t, f)
	want = []byte{0x00, 0x00, 0x00, 0xff, 0xff, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("mirrored: got % x, want % x", got, want)
	}
}

func TestRendererFullFrameIsStrip(t *testing.T) {
	var got []Clip
	f := NewFrame(20, 10, func(r *Renderer) {
		got = append(got, r.FullFrame())
	})
	f.DrawPart(3, make([]byte, f.Stride()*4))
	f.SetMirrorY(true)
	f.DrawPart(3, make([]byte, f.Stride()*4))

	want := []Clip{NewClip(0, 3, 20, 7), NewClip(0, 3, 20, 7)}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("part %d: FullFrame() = %+v, want %+v", i, got[i], want[i])
		}
	}

	got = got[:0]
	f.DrawPart(0, make([]byte, f.Stride()*2))
	if want := NewClip(0, 8, 20, 10); got[0] != want {
		t.Errorf("mirrored first part: FullFrame() = %+v, want %+v", got[0], want)
	}
}

func TestRendererRLERowIsTransparent(t *testing.T) {
	runs := []uint16{Run(false, 3), Run(true, 2), Run(false, 4), Run(true, 7)}
	buf := []byte{0xff, 0xff, 0xff}
	NewFrame(24, 1, func(r *Renderer) {
		r.RenderRLERow(r.FullFrame(), 2, 0, runs, Black)
	}).DrawPart(0, buf)

	// Ink at [5,7) and [11,18); everything else keeps its white background.
	want := []byte{0xf9, 0xe0, 0x3f}
	if !bytes.Equal(buf, want) {
		t.Errorf("got % x, want % x", buf, want)
	}
}

func TestRendererRLERowClipped(t *testing.T) {
	runs := []uint16{Run(true, 10), Run(false, 2), Run(true, 10)}
	buf := make([]byte, 3)
	NewFrame(24, 1, func(r *Renderer) {
		r.RenderRLERow(r.FullFrame().Intersect(4, 0, 18, 1), -2, 0, runs, White)
		r.RenderRLERow(r.FullFrame(), 0, 1, runs, White)
	}).DrawPart(0, buf)

	// Ink at [4,8) and [10,18), the row 1 call falls outside the strip.
	want := []byte{0x0f, 0x3f, 0xc0}
	if !bytes.Equal(buf, want) {
		t.Errorf("got % x, want % x", buf, want)
	}
}

func TestRendererBitmapRow(t *testing.T) {
	bits := []byte{0xff, 0xff}
	tests := []struct {
		name        string
		clip        Clip
		y           int
		left, right int
		want        []byte
	}{
		{"unclipped", NewClip(0, 0, 24, 1), 0, 3, 19, []byte{0x1f, 0xff, 0xe0}},
		{"clipped both sides", NewClip(5, 0, 10, 1), 0, 3, 19, []byte{0x07, 0xc0, 0x00}},
		{"off canvas left", NewClip(-20, 0, 24, 1), 0, -4, 12, []byte{0xff, 0xf0, 0x00}},
		{"off canvas right", NewClip(0, 0, 40, 1), 0, 20, 36, []byte{0x00, 0x00, 0x0f}},
		{"other row", NewClip(0, 0, 24, 2), 1, 0, 16, []byte{0x00, 0x00, 0x00}},
		{"empty clip", NewClip(8, 0, 8, 1), 0, 0, 16, []byte{0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 3)
			NewFrame(24, 1, func(r *Renderer) {
				r.RenderBitmapRow(tt.clip, tt.y, tt.left, tt.right, bits, White)
			}).DrawPart(0, buf)
			if !bytes.Equal(buf, tt.want) {
				t.Errorf("got % x, want % x", buf, tt.want)
			}
		})
	}
}

func TestRendererClear(t *testing.T) {
	f := NewFrame(13, 3, func(r *Renderer) { r.Clear(White) })
	got := renderWhole(t, f)
	want := []byte{0xff, 0xf8, 0xff, 0xf8, 0xff, 0xf8}
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestDrawPartPreconditions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		start         int
		size          int
	}{
		{"buffer smaller than a row", 12, 1, 0, 1},
		{"partial row", 12, 4, 0, 3},
		{"empty buffer", 12, 4, 0, 0},
		{"past the bottom", 12, 4, 3, 4},
		{"negative start", 12, 4, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("DrawPart did not panic")
				}
			}()
			NewFrame(tt.width, tt.height, func(*Renderer) {}).DrawPart(tt.start, make([]byte, tt.size))
		})
	}
}

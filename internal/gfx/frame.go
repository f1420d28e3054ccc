package gfx

// DrawFunc draws the scene. It is called once per partial frame and must
// produce the same pixels for the same coordinates regardless of which
// strip the renderer covers.
type DrawFunc func(r *Renderer)

// Frame renders a width x height canvas strip by strip into caller
// supplied buffers.
type Frame struct {
	width   int
	height  int
	draw    DrawFunc
	format  Format
	mirrorX bool
	mirrorY bool
}

// NewFrame returns a black/white frame calling draw for every part.
func NewFrame(width, height int, draw DrawFunc) *Frame {
	return &Frame{
		width:  width,
		height: height,
		draw:   draw,
		format: Mono,
	}
}

// SetMirrorX reverses the pixel order of every output row.
func (f *Frame) SetMirrorX(mirror bool) { f.mirrorX = mirror }

// SetMirrorY reverses the order of output rows across the canvas.
func (f *Frame) SetMirrorY(mirror bool) { f.mirrorY = mirror }

func (f *Frame) Width() int  { return f.width }
func (f *Frame) Height() int { return f.height }

// Stride returns the size in bytes of one output row.
func (f *Frame) Stride() int {
	return Stride(f.width, f.format.BitsPerPixel())
}

// DrawPart renders the output rows [startRow, startRow+n) into buf, where
// n is len(buf) / Stride(). With y mirroring the rows are taken from the
// opposite end of the canvas, so increasing startRow still walks the
// physical output from first to last row.
//
// DrawPart panics if buf is not a whole, non-zero number of rows or if the
// part extends past the canvas.
func (f *Frame) DrawPart(startRow int, buf []byte) {
	stride := f.Stride()
	if stride == 0 || len(buf) == 0 || len(buf)%stride != 0 {
		panic("gfx: buffer length is not a multiple of the row stride")
	}
	n := len(buf) / stride
	if startRow < 0 || startRow+n > f.height {
		panic("gfx: part exceeds canvas height")
	}

	top, bottom := startRow, startRow+n
	if f.mirrorY {
		top, bottom = f.height-(startRow+n), f.height-startRow
	}
	f.draw(newRenderer(buf, f.format, f.width, f.height, top, bottom, f.mirrorY))

	if f.mirrorX {
		for i := 0; i < n; i++ {
			f.format.MirrorX(buf[i*stride:(i+1)*stride], f.width)
		}
	}
}

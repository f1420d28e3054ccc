package gfx

// Renderer draws into the buffer of one partial frame: the rows
// [top, bottom) of a width x height canvas.
//
// All operations take canvas coordinates and discard whatever falls
// outside the active strip, so a draw callback can issue full-canvas
// drawing unconditionally. A Renderer is only valid during the DrawFunc
// call it was passed to.
type Renderer struct {
	buf     []byte
	stride  int
	width   int
	height  int
	top     int
	bottom  int
	mirrorY bool
	format  Format
}

func newRenderer(buf []byte, format Format, width, height, top, bottom int, mirrorY bool) *Renderer {
	stride := Stride(width, format.BitsPerPixel())
	if len(buf) != stride*(bottom-top) {
		panic("gfx: renderer buffer does not match strip size")
	}
	return &Renderer{
		buf:     buf,
		stride:  stride,
		width:   width,
		height:  height,
		top:     top,
		bottom:  bottom,
		mirrorY: mirrorY,
		format:  format,
	}
}

// Width returns the canvas width in pixels.
func (r *Renderer) Width() int { return r.width }

// Height returns the canvas height in pixels.
func (r *Renderer) Height() int { return r.height }

// Top returns the first canvas row of the active strip.
func (r *Renderer) Top() int { return r.top }

// Bottom returns the row just past the active strip.
func (r *Renderer) Bottom() int { return r.bottom }

// FullFrame spans the canvas width and the active strip. It does not span
// the whole canvas height.
func (r *Renderer) FullFrame() Clip {
	return Clip{left: 0, top: r.top, right: r.width, bottom: r.bottom}
}

// Visible narrows clip to what this renderer can actually write.
func (r *Renderer) Visible(clip Clip) Clip {
	return clip.Intersect(0, r.top, r.width, r.bottom)
}

// row returns the packed buffer row for canvas row y.
func (r *Renderer) row(y int) []byte {
	i := y - r.top
	if r.mirrorY {
		i = r.bottom - 1 - y
	}
	return r.buf[i*r.stride : (i+1)*r.stride]
}

// Fill paints the rectangle [left, right) x [top, bottom).
func (r *Renderer) Fill(clip Clip, left, top, right, bottom int, color Color) {
	c := r.Visible(clip).Intersect(left, top, right, bottom)
	if c.IsEmpty() {
		return
	}
	for y := c.top; y < c.bottom; y++ {
		color.Fill(r.row(y), c.left, c.right)
	}
}

// RenderRLERow draws one row of runs starting at (x, y). Runs with the
// color flag set are filled; the others only advance the cursor and leave
// the background untouched.
func (r *Renderer) RenderRLERow(clip Clip, x, y int, runs []uint16, color Color) {
	c := r.Visible(clip)
	if !c.ContainsRow(y) || c.IsEmpty() {
		return
	}
	row := r.row(y)
	pos := x
	for _, run := range runs {
		length := int(run & runLengthMask)
		if run&runFlag != 0 {
			color.Fill(row, max(pos, c.left), min(pos+length, c.right))
		}
		pos += length
		if pos >= c.right {
			return
		}
	}
}

// RenderBitmapRow copies a packed source row spanning canvas pixels
// [left, right) onto canvas row y.
func (r *Renderer) RenderBitmapRow(clip Clip, y, left, right int, bits []byte, color Color) {
	c := r.Visible(clip).ClipLeft(left).ClipRight(right)
	if !c.ContainsRow(y) || c.IsEmpty() {
		return
	}
	color.RenderBitmapRow(r.row(y), left, bits, c.left-left, c.right-left)
}

// Clear fills the whole active strip.
func (r *Renderer) Clear(color Color) {
	r.Fill(r.FullFrame(), 0, r.top, r.width, r.bottom, color)
}

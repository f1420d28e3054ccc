package gfx

// Clip is an axis-aligned rectangle bounding where drawing takes effect.
// Left and top are inclusive, right and bottom exclusive, all in pixels.
//
// Clips are values: every narrowing operation returns a new Clip and never
// widens the receiver.
type Clip struct {
	left, top, right, bottom int
}

// NewClip returns the clip rectangle [left, right) x [top, bottom).
func NewClip(left, top, right, bottom int) Clip {
	return Clip{left: left, top: top, right: right, bottom: bottom}
}

func (c Clip) Left() int   { return c.left }
func (c Clip) Top() int    { return c.top }
func (c Clip) Right() int  { return c.right }
func (c Clip) Bottom() int { return c.bottom }

// ClipLeft moves the left edge to left if that is tighter.
func (c Clip) ClipLeft(left int) Clip {
	c.left = max(c.left, left)
	return c
}

// ClipRight moves the right edge to right if that is tighter.
func (c Clip) ClipRight(right int) Clip {
	c.right = min(c.right, right)
	return c
}

// ClipTop moves the top edge to top if that is tighter.
func (c Clip) ClipTop(top int) Clip {
	c.top = max(c.top, top)
	return c
}

// ClipBottom moves the bottom edge to bottom if that is tighter.
func (c Clip) ClipBottom(bottom int) Clip {
	c.bottom = min(c.bottom, bottom)
	return c
}

// Intersect applies all four bounds at once.
func (c Clip) Intersect(left, top, right, bottom int) Clip {
	return Clip{
		left:   max(c.left, left),
		top:    max(c.top, top),
		right:  min(c.right, right),
		bottom: min(c.bottom, bottom),
	}
}

// IntersectClip narrows c by another clip.
func (c Clip) IntersectClip(o Clip) Clip {
	return c.Intersect(o.left, o.top, o.right, o.bottom)
}

// ContainsRow reports whether top <= y < bottom.
func (c Clip) ContainsRow(y int) bool {
	return y >= c.top && y < c.bottom
}

// IsEmpty reports whether the clip has no horizontal extent.
//
// Vertical emptiness is not checked here: row loops over [top, bottom)
// simply do not execute for a vertically empty clip.
func (c Clip) IsEmpty() bool {
	return c.left >= c.right
}

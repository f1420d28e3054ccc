package gfx

// Drawable is anything that can draw itself through a renderer.
type Drawable interface {
	Draw(clip Clip, r *Renderer)
}

// Rectangle is a solid filled box.
type Rectangle struct {
	Left, Top     int
	Width, Height int
	Color         Color
}

// NewRectangle returns the box at (left, top) of the given size.
func NewRectangle(left, top, width, height int, color Color) Rectangle {
	return Rectangle{Left: left, Top: top, Width: width, Height: height, Color: color}
}

func (rc Rectangle) Draw(clip Clip, r *Renderer) {
	r.Fill(clip, rc.Left, rc.Top, rc.Left+rc.Width, rc.Top+rc.Height, rc.Color)
}

// TextAlignment positions text relative to its anchor x.
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignRight
	AlignCenter
)

func (a TextAlignment) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "left"
	}
}

// Text is a single line of text anchored at (X, Y), Y being the top of
// the line box.
type Text struct {
	X, Y  int
	Text  string
	Font  *Font
	Color Color

	offset int
}

// NewText returns left aligned text.
func NewText(x, y int, text string, font *Font, color Color) *Text {
	return &Text{X: x, Y: y, Text: text, Font: font, Color: color}
}

// Align measures the text once and stores the horizontal offset that
// Draw applies to X.
func (t *Text) Align(a TextAlignment) {
	w, _ := t.Font.TextSize(t.Text)
	switch a {
	case AlignRight:
		t.offset = -w
	case AlignCenter:
		t.offset = -w / 2
	default:
		t.offset = 0
	}
}

// Bounds returns the clip the text occupies.
func (t *Text) Bounds() Clip {
	w, h := t.Font.TextSize(t.Text)
	x := t.X + t.offset
	return NewClip(x, t.Y, x+w, t.Y+h)
}

func (t *Text) Draw(clip Clip, r *Renderer) {
	t.Font.Render(r, clip, t.Text, t.X+t.offset, t.Y, t.Color)
}

// Picture draws an image with its top left corner at (X, Y).
type Picture struct {
	X, Y  int
	Image Image
	Color Color
}

func (p Picture) Draw(clip Clip, r *Renderer) {
	p.Image.RenderTransparent(r, clip, p.X, p.Y, p.Color)
}

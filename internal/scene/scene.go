// Package scene turns the configured list of items into a draw callback
// for gfx.Frame.
package scene

import (
	"fmt"
	"strings"
	"time"

	"epdgfx/internal/assets"
	"epdgfx/internal/config"
	"epdgfx/internal/fonts"
	"epdgfx/internal/gfx"
	appLog "epdgfx/internal/log"
)

// Scene is a validated, immutable list of drawables. Images are loaded
// once when the scene is built.
type Scene struct {
	elems []element
}

type element struct {
	clip *gfx.Clip

	// Exactly one of static or text is set.
	static gfx.Drawable
	text   *textElem
}

type textElem struct {
	x, y       int
	text       string
	timeFormat string
	font       *gfx.Font
	align      gfx.TextAlignment
	color      gfx.BlackWhite
}

// clearAll fills the whole canvas.
type clearAll struct {
	color gfx.BlackWhite
}

func (c clearAll) Draw(clip gfx.Clip, r *gfx.Renderer) {
	r.Fill(clip, 0, 0, r.Width(), r.Height(), c.color)
}

// New validates items and resolves their fonts and images.
func New(items []config.Item) (*Scene, error) {
	s := &Scene{elems: make([]element, 0, len(items))}
	for i, it := range items {
		e, err := newElement(it)
		if err != nil {
			return nil, fmt.Errorf("scene: item %d (%s): %w", i, it.Type, err)
		}
		s.elems = append(s.elems, e)
	}
	appLog.Info("scene: built", "items", len(s.elems))
	return s, nil
}

func newElement(it config.Item) (element, error) {
	var e element
	if it.Clip != nil {
		c := gfx.NewClip(it.Clip.Left, it.Clip.Top, it.Clip.Right, it.Clip.Bottom)
		e.clip = &c
	}

	def := gfx.Black
	if it.Type == "clear" {
		def = gfx.White
	}
	color, err := parseColor(it.Color, def)
	if err != nil {
		return e, err
	}

	switch it.Type {
	case "clear":
		e.static = clearAll{color: color}

	case "rect":
		if it.Width < 0 || it.Height < 0 {
			return e, fmt.Errorf("negative size %dx%d", it.Width, it.Height)
		}
		e.static = gfx.NewRectangle(it.Left, it.Top, it.Width, it.Height, color)

	case "text":
		if it.Text == "" && it.TimeFormat == "" {
			return e, fmt.Errorf("text or time_format is required")
		}
		font, ok := fonts.Lookup(it.Font)
		if !ok {
			return e, fmt.Errorf("unknown font %q (have %s)", it.Font, strings.Join(fonts.Names(), ", "))
		}
		align, err := parseAlign(it.Align)
		if err != nil {
			return e, err
		}
		e.text = &textElem{
			x: it.X, y: it.Y,
			text:       it.Text,
			timeFormat: it.TimeFormat,
			font:       font,
			align:      align,
			color:      color,
		}

	case "image":
		if it.Path == "" {
			return e, fmt.Errorf("path is required")
		}
		img, err := assets.LoadImageFile(it.Path)
		if err != nil {
			return e, err
		}
		e.static = gfx.Picture{X: it.X, Y: it.Y, Image: img, Color: color}

	default:
		return e, fmt.Errorf("unknown type %q", it.Type)
	}
	return e, nil
}

func parseColor(s string, def gfx.BlackWhite) (gfx.BlackWhite, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "black":
		return gfx.Black, nil
	case "white":
		return gfx.White, nil
	default:
		return def, fmt.Errorf("unknown color %q", s)
	}
}

func parseAlign(s string) (gfx.TextAlignment, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return gfx.AlignLeft, nil
	case "right":
		return gfx.AlignRight, nil
	case "center":
		return gfx.AlignCenter, nil
	default:
		return gfx.AlignLeft, fmt.Errorf("unknown alignment %q", s)
	}
}

// Snapshot fixes every time dependent text at now and returns a draw
// callback that produces the same pixels for every part of the frame.
func (s *Scene) Snapshot(now time.Time) gfx.DrawFunc {
	type placed struct {
		clip *gfx.Clip
		d    gfx.Drawable
	}
	list := make([]placed, len(s.elems))
	for i, e := range s.elems {
		d := e.static
		if t := e.text; t != nil {
			content := t.text
			if t.timeFormat != "" {
				content = now.Format(t.timeFormat)
			}
			txt := gfx.NewText(t.x, t.y, content, t.font, t.color)
			txt.Align(t.align)
			d = txt
		}
		list[i] = placed{clip: e.clip, d: d}
	}

	return func(r *gfx.Renderer) {
		full := r.FullFrame()
		for _, p := range list {
			clip := full
			if p.clip != nil {
				clip = full.IntersectClip(*p.clip)
			}
			p.d.Draw(clip, r)
		}
	}
}

// Frame returns a panel sized frame drawing the snapshot at now, with the
// panel's mirroring applied.
func (s *Scene) Frame(p config.Panel, now time.Time) *gfx.Frame {
	f := gfx.NewFrame(p.Width, p.Height, s.Snapshot(now))
	f.SetMirrorX(p.MirrorX)
	f.SetMirrorY(p.MirrorY)
	return f
}

// Len returns the number of items.
func (s *Scene) Len() int { return len(s.elems) }

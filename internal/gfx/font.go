package gfx

import (
	"slices"
	"sort"
)

// Glyph is the image of one character and its placement relative to the
// pen position on the baseline.
type Glyph struct {
	Image Image
	// Left is added to the pen x position.
	Left int
	// Top is the distance from the baseline up to the first image row.
	Top     int
	Advance int
}

// GlyphRange maps the characters [Start, Start+Length) onto the glyphs
// [Base, Base+Length).
type GlyphRange struct {
	Start  rune
	Length int
	Base   int
}

// GlyphIndex is a sorted, non-overlapping list of ranges. Single
// characters are ranges of length one.
type GlyphIndex []GlyphRange

// NewGlyphIndex compiles the index of a font whose glyphs are stored in
// the sorted, deduplicated order of chars.
func NewGlyphIndex(chars []rune) GlyphIndex {
	chars = slices.Clone(chars)
	slices.Sort(chars)
	chars = slices.Compact(chars)

	var ix GlyphIndex
	for i, c := range chars {
		if n := len(ix); n > 0 && ix[n-1].Start+rune(ix[n-1].Length) == c {
			ix[n-1].Length++
			continue
		}
		ix = append(ix, GlyphRange{Start: c, Length: 1, Base: i})
	}
	return ix
}

// Lookup returns the glyph index of c, if the font has one.
func (ix GlyphIndex) Lookup(c rune) (int, bool) {
	i := sort.Search(len(ix), func(i int) bool {
		return ix[i].Start+rune(ix[i].Length) > c
	})
	if i == len(ix) || c < ix[i].Start {
		return 0, false
	}
	return ix[i].Base + int(c-ix[i].Start), true
}

// Font is a compiled, immutable set of glyphs.
type Font struct {
	Ascender  int
	Descender int
	Glyphs    []Glyph
	Index     GlyphIndex
}

// Glyph returns the glyph for c. Characters outside the compiled subset
// have none.
func (f *Font) Glyph(c rune) (*Glyph, bool) {
	i, ok := f.Index.Lookup(c)
	if !ok {
		return nil, false
	}
	return &f.Glyphs[i], true
}

// TextSize measures text. Characters without a glyph take no space. The
// height is always Ascender + Descender.
func (f *Font) TextSize(text string) (width, height int) {
	for _, c := range text {
		if g, ok := f.Glyph(c); ok {
			width += g.Advance
		}
	}
	return width, f.Ascender + f.Descender
}

// Render draws text with the top of its line box at y and the pen
// starting at x.
func (f *Font) Render(r *Renderer, clip Clip, text string, x, y int, color Color) {
	pos := x
	for _, c := range text {
		g, ok := f.Glyph(c)
		if !ok {
			continue
		}
		if g.Image != nil {
			g.Image.RenderTransparent(r, clip, pos+g.Left, y+f.Ascender-g.Top, color)
		}
		pos += g.Advance
	}
}

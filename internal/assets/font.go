package assets

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"epdgfx/internal/gfx"
	appLog "epdgfx/internal/log"
)

// ImageType selects the storage format of compiled glyphs.
type ImageType string

const (
	// RLE glyphs are transparent: only ink pixels are written.
	RLE ImageType = "rle"
	// Bitmap glyphs are opaque boxes.
	Bitmap ImageType = "bitmap"
)

// DefaultSubset is printable ASCII.
const DefaultSubset = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// FontOptions controls CompileFont.
type FontOptions struct {
	// Size is the em size in pixels.
	Size float64
	// Subset lists the characters to compile. Empty means DefaultSubset.
	Subset string
	Type   ImageType
}

// CompileFont rasterizes the characters of opts.Subset from an OpenType
// or TrueType font into a static gfx.Font. Pixels with coverage of at
// least one half become ink. Characters the font lacks are skipped.
func CompileFont(data []byte, opts FontOptions) (*gfx.Font, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("assets: font size %v must be positive", opts.Size)
	}
	switch opts.Type {
	case "":
		opts.Type = RLE
	case RLE, Bitmap:
	default:
		return nil, fmt.Errorf("assets: unknown glyph type %q", opts.Type)
	}

	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("assets: parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("assets: create face: %w", err)
	}
	defer face.Close()

	var buf sfnt.Buffer
	var chars []rune
	var glyphs []gfx.Glyph
	for _, r := range subsetRunes(opts.Subset) {
		if ix, err := otf.GlyphIndex(&buf, r); err != nil || ix == 0 {
			appLog.Warn("assets: font has no glyph", "rune", fmt.Sprintf("%q", r))
			continue
		}
		g, err := compileGlyph(face, r, opts.Type)
		if err != nil {
			return nil, err
		}
		chars = append(chars, r)
		glyphs = append(glyphs, g)
	}

	m := face.Metrics()
	f := &gfx.Font{
		Ascender:  m.Ascent.Ceil(),
		Descender: m.Descent.Ceil(),
		Glyphs:    glyphs,
		Index:     gfx.NewGlyphIndex(chars),
	}
	appLog.Info("assets: font compiled", "size", opts.Size, "glyphs", len(glyphs), "type", opts.Type,
		"ascender", f.Ascender, "descender", f.Descender)
	return f, nil
}

// subsetRunes normalizes s to NFC and returns its distinct runes in code
// point order, the same order gfx.NewGlyphIndex assigns glyphs in.
func subsetRunes(s string) []rune {
	if s == "" {
		s = DefaultSubset
	}
	s = norm.NFC.String(s)
	rs := []rune(strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, s))
	slices.Sort(rs)
	return slices.Compact(rs)
}

func compileGlyph(face font.Face, r rune, typ ImageType) (gfx.Glyph, error) {
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return gfx.Glyph{}, fmt.Errorf("assets: rasterize %q failed", r)
	}
	g := gfx.Glyph{
		Left:    dr.Min.X,
		Top:     -dr.Min.Y,
		Advance: advance.Ceil(),
	}
	if dr.Empty() {
		return g, nil
	}

	bm := packMask(mask, maskp, dr.Dx(), dr.Dy())
	if isBlank(bm) {
		return g, nil
	}
	switch typ {
	case Bitmap:
		g.Image = bm
	default:
		img, err := EncodeRLE(bm)
		if err != nil {
			return gfx.Glyph{}, err
		}
		g.Image = img
	}
	return g, nil
}

// packMask thresholds the w x h coverage mask starting at mp.
func packMask(mask image.Image, mp image.Point, w, h int) gfx.MonoBitmapImage {
	stride := gfx.Stride(w, 1)
	data := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			_, _, _, a := mask.At(mp.X+x, mp.Y+y).RGBA()
			if a>>8 >= 128 {
				data[y*stride+(x>>3)] |= 0x80 >> (x & 7)
			}
		}
	}
	return gfx.MonoBitmapImage{Data: data, Width: w, Height: h, Stride: stride}
}

func isBlank(img gfx.MonoBitmapImage) bool {
	for _, b := range img.Data {
		if b != 0 {
			return false
		}
	}
	return true
}

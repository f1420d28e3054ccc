package fonts

import "epdgfx/internal/gfx"

// tinyChars lists the characters of Tiny in code point order, matching
// the order of tinyRows.
const tinyChars = " -./0123456789:ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// tinyRows holds five rows of three pixels per character, most
// significant of the three bits leftmost.
var tinyRows = [...][5]uint8{
	{0b000, 0b000, 0b000, 0b000, 0b000}, // ' '
	{0b000, 0b000, 0b111, 0b000, 0b000}, // '-'
	{0b000, 0b000, 0b000, 0b000, 0b010}, // '.'
	{0b001, 0b001, 0b010, 0b100, 0b100}, // '/'
	{0b111, 0b101, 0b101, 0b101, 0b111},
	{0b010, 0b110, 0b010, 0b010, 0b111},
	{0b111, 0b001, 0b111, 0b100, 0b111},
	{0b111, 0b001, 0b111, 0b001, 0b111},
	{0b101, 0b101, 0b111, 0b001, 0b001},
	{0b111, 0b100, 0b111, 0b001, 0b111},
	{0b111, 0b100, 0b111, 0b101, 0b111},
	{0b111, 0b001, 0b001, 0b001, 0b001},
	{0b111, 0b101, 0b111, 0b101, 0b111},
	{0b111, 0b101, 0b111, 0b001, 0b111},
	{0b000, 0b010, 0b000, 0b010, 0b000}, // ':'
	{0b010, 0b101, 0b111, 0b101, 0b101},
	{0b110, 0b101, 0b110, 0b101, 0b110},
	{0b011, 0b100, 0b100, 0b100, 0b011},
	{0b110, 0b101, 0b101, 0b101, 0b110},
	{0b111, 0b100, 0b110, 0b100, 0b111},
	{0b111, 0b100, 0b110, 0b100, 0b100},
	{0b011, 0b100, 0b101, 0b101, 0b011},
	{0b101, 0b101, 0b111, 0b101, 0b101},
	{0b111, 0b010, 0b010, 0b010, 0b111},
	{0b011, 0b001, 0b001, 0b101, 0b010},
	{0b101, 0b110, 0b100, 0b110, 0b101},
	{0b100, 0b100, 0b100, 0b100, 0b111},
	{0b101, 0b111, 0b101, 0b101, 0b101},
	{0b101, 0b111, 0b111, 0b101, 0b101},
	{0b010, 0b101, 0b101, 0b101, 0b010},
	{0b110, 0b101, 0b110, 0b100, 0b100},
	{0b010, 0b101, 0b101, 0b111, 0b011},
	{0b110, 0b101, 0b110, 0b101, 0b101},
	{0b011, 0b100, 0b010, 0b001, 0b110},
	{0b111, 0b010, 0b010, 0b010, 0b010},
	{0b101, 0b101, 0b101, 0b101, 0b111},
	{0b101, 0b101, 0b101, 0b101, 0b010},
	{0b101, 0b101, 0b101, 0b111, 0b101},
	{0b101, 0b101, 0b010, 0b101, 0b101},
	{0b101, 0b101, 0b010, 0b010, 0b010},
	{0b111, 0b001, 0b010, 0b100, 0b111},
}

// Tiny is a 3x5 pixel font covering digits, upper case letters and the
// punctuation needed for dates and times. Glyph boxes are opaque, so text
// drawn in Black also paints the gaps inside each box white.
var Tiny = newTiny()

func newTiny() *gfx.Font {
	glyphs := make([]gfx.Glyph, len(tinyRows))
	for i, rows := range tinyRows {
		g := gfx.Glyph{Top: 5, Advance: 4}
		if rows != ([5]uint8{}) {
			data := make([]byte, len(rows))
			for y, bits := range rows {
				data[y] = bits << 5
			}
			g.Image = gfx.MonoBitmapImage{Data: data, Width: 3, Height: 5, Stride: 1}
		}
		glyphs[i] = g
	}
	return &gfx.Font{
		Ascender:  5,
		Descender: 1,
		Glyphs:    glyphs,
		Index:     gfx.NewGlyphIndex([]rune(tinyChars)),
	}
}

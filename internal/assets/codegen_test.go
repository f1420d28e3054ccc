package assets

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"epdgfx/internal/gfx"
)

func TestWriteGo(t *testing.T) {
	font := &gfx.Font{
		Ascender:  4,
		Descender: 1,
		Glyphs: []gfx.Glyph{
			{Advance: 3},
			{Image: gfx.MonoRLEImage{Data: []uint16{2, 3, 0x8002}, Width: 2, Height: 1}, Top: 1, Advance: 3},
		},
		Index: gfx.NewGlyphIndex([]rune(" '")),
	}
	long := make([]byte, 30)
	images := []NamedImage{
		{Name: "logo", Image: gfx.MonoBitmapImage{Data: []byte{0xf0, 0x90}, Width: 4, Height: 2, Stride: 1}},
		{Name: "wide-bar", Image: gfx.MonoBitmapImage{Data: long, Width: 240, Height: 1, Stride: 30}},
	}

	var buf bytes.Buffer
	if err := WriteGo(&buf, "assetsgen", []NamedFont{{Name: "go-mono-12", Font: font}}, images); err != nil {
		t.Fatalf("WriteGo() error = %v", err)
	}
	src := buf.String()

	if _, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.AllErrors); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
	for _, want := range []string{
		"// Code generated by epdgfx-assets. DO NOT EDIT.",
		"package assetsgen",
		`"epdgfx/internal/fonts"`,
		"var GoMono12 = &gfx.Font{",
		"{Left: 0, Top: 0, Advance: 3},",
		"Image: gfx.MonoRLEImage{Data: []uint16{0x0002, 0x0003, 0x8002}, Width: 2, Height: 1}",
		"{Start: '\\'', Length: 1, Base: 1},",
		"var Logo = gfx.MonoBitmapImage{Data: []byte{0xf0, 0x90}, Width: 4, Height: 2, Stride: 1}",
		"var WideBar = gfx.MonoBitmapImage{Data: []byte{\n",
		`fonts.Register("go-mono-12", GoMono12)`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated code lacks %q:\n%s", want, src)
		}
	}
}

func TestWriteGoInFontsPackage(t *testing.T) {
	font := &gfx.Font{Glyphs: []gfx.Glyph{{Advance: 1}}, Index: gfx.NewGlyphIndex([]rune("a"))}
	var buf bytes.Buffer
	if err := WriteGo(&buf, "fonts", []NamedFont{{Name: "small", Font: font}}, nil); err != nil {
		t.Fatal(err)
	}
	src := buf.String()
	if strings.Contains(src, `"epdgfx/internal/fonts"`) || !strings.Contains(src, `Register("small", Small)`) {
		t.Errorf("fonts package should register without importing itself:\n%s", src)
	}
}

func TestWriteGoErrors(t *testing.T) {
	img := gfx.MonoBitmapImage{Data: []byte{0}, Width: 1, Height: 1, Stride: 1}
	tests := []struct {
		name   string
		pkg    string
		images []NamedImage
	}{
		{"bad package", "my-assets", []NamedImage{{Name: "a", Image: img}}},
		{"name collision", "gen", []NamedImage{{Name: "a-b", Image: img}, {Name: "a_b", Image: img}}},
		{"no usable name", "gen", []NamedImage{{Name: "--", Image: img}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := WriteGo(&bytes.Buffer{}, tt.pkg, nil, tt.images); err == nil {
				t.Error("WriteGo() succeeded")
			}
		})
	}
}

func TestIdent(t *testing.T) {
	tests := map[string]string{
		"logo":          "Logo",
		"go-regular-16": "GoRegular16",
		"16px":          "A16px",
		"weather_icon":  "WeatherIcon",
	}
	for in, want := range tests {
		if got := Ident(in); got != want {
			t.Errorf("Ident(%q) = %q, want %q", in, got, want)
		}
	}
}

package assets

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strings"
	"text/template"
	"unicode"

	"epdgfx/internal/gfx"
)

// NamedFont is a compiled font to emit. Name is the registry name; the Go
// variable is derived from it.
type NamedFont struct {
	Name string
	Font *gfx.Font
}

// NamedImage is a picture to emit as a package-level bitmap.
type NamedImage struct {
	Name  string
	Image gfx.Image
}

var goTemplate = template.Must(template.New("assets").Funcs(template.FuncMap{
	"ident": Ident,
	"image": imageExpr,
}).Parse(`// Code generated by epdgfx-assets. DO NOT EDIT.

package {{.Package}}

import (
	"epdgfx/internal/gfx"
{{- if and .Fonts (ne .Package "fonts")}}
	"epdgfx/internal/fonts"
{{- end}}
)
{{range .Fonts}}
var {{ident .Name}} = &gfx.Font{
	Ascender:  {{.Font.Ascender}},
	Descender: {{.Font.Descender}},
	Glyphs: []gfx.Glyph{
{{- range .Font.Glyphs}}
		{ {{- if .Image}}Image: {{image .Image}}, {{end}}Left: {{.Left}}, Top: {{.Top}}, Advance: {{.Advance -}} },
{{- end}}
	},
	Index: gfx.GlyphIndex{
{{- range .Font.Index}}
		{Start: {{printf "%q" .Start}}, Length: {{.Length}}, Base: {{.Base}}},
{{- end}}
	},
}
{{end}}
{{- range .Images}}
var {{ident .Name}} = {{image .Image}}
{{end}}
{{- if .Fonts}}
func init() {
{{- range .Fonts}}
	{{$.Register}}({{printf "%q" .Name}}, {{ident .Name}})
{{- end}}
}
{{- end}}
`))

// WriteGo emits a gofmt-formatted Go file declaring one variable per
// asset. Fonts are also registered with package fonts under their name.
func WriteGo(w io.Writer, pkg string, fonts []NamedFont, images []NamedImage) error {
	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("assets: invalid package name %q", pkg)
	}
	seen := map[string]string{}
	names := make([]string, 0, len(fonts)+len(images))
	for _, f := range fonts {
		names = append(names, f.Name)
	}
	for _, img := range images {
		names = append(names, img.Name)
	}
	for _, n := range names {
		id := Ident(n)
		if !token.IsIdentifier(id) {
			return fmt.Errorf("assets: cannot derive a Go name from %q", n)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("assets: %q and %q both map to %s", prev, n, id)
		}
		seen[id] = n
	}

	register := "fonts.Register"
	if pkg == "fonts" {
		register = "Register"
	}

	var buf bytes.Buffer
	err := goTemplate.Execute(&buf, struct {
		Package  string
		Register string
		Fonts    []NamedFont
		Images   []NamedImage
	}{pkg, register, fonts, images})
	if err != nil {
		return fmt.Errorf("assets: render template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("assets: format generated code: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// Ident turns an asset name like "go-regular-16" into an exported Go
// identifier, "GoRegular16".
func Ident(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	id := b.String()
	if id != "" && unicode.IsDigit([]rune(id)[0]) {
		id = "A" + id
	}
	return id
}

func imageExpr(img gfx.Image) (string, error) {
	switch m := img.(type) {
	case gfx.MonoBitmapImage:
		return fmt.Sprintf("gfx.MonoBitmapImage{Data: []byte{%s}, Width: %d, Height: %d, Stride: %d}",
			hexList(len(m.Data), func(i int) string { return fmt.Sprintf("0x%02x", m.Data[i]) }),
			m.Width, m.Height, m.Stride), nil
	case gfx.MonoRLEImage:
		return fmt.Sprintf("gfx.MonoRLEImage{Data: []uint16{%s}, Width: %d, Height: %d}",
			hexList(len(m.Data), func(i int) string { return fmt.Sprintf("0x%04x", m.Data[i]) }),
			m.Width, m.Height), nil
	default:
		return "", fmt.Errorf("assets: cannot emit image of type %T", img)
	}
}

// hexList joins n values, breaking the line every 12 values.
func hexList(n int, item func(i int) string) string {
	if n <= 12 {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = item(i)
		}
		return strings.Join(parts, ", ")
	}
	var b strings.Builder
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		b.WriteString(item(i))
		b.WriteString(",")
		if i%12 == 11 || i == n-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

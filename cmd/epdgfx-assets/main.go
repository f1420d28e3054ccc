// Command epdgfx-assets compiles fonts and pictures into Go source that
// declares static gfx values.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/image/font/gofont/goregular"

	"epdgfx/internal/assets"
	"epdgfx/internal/gfx"
	appLog "epdgfx/internal/log"
)

type flagConfig struct {
	pkg      string
	output   string
	font     string
	fontName string
	size     float64
	subset   string
	typ      string
	images   []string
	rle      bool
	logLevel string
}

func main() {
	flags := parseFlags()
	appLog.SetLevel(appLog.ParseLevel(flags.logLevel))

	if err := run(flags); err != nil {
		appLog.Error("asset generation failed", err, "output", flags.output)
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	pflag.StringVarP(&cfg.pkg, "package", "p", "fonts", "Go package name of the generated file")
	pflag.StringVarP(&cfg.output, "output", "o", "", "Output .go file (stdout if empty)")
	pflag.StringVar(&cfg.font, "font", "", "TrueType/OpenType file (Go Regular if empty and no --image is given)")
	pflag.StringVar(&cfg.fontName, "font-name", "", "Registry name of the font (file name if empty)")
	pflag.Float64Var(&cfg.size, "size", 16, "Font size in pixels")
	pflag.StringVar(&cfg.subset, "subset", "", "Characters to include (printable ASCII if empty)")
	pflag.StringVar(&cfg.typ, "type", string(assets.RLE), "Glyph storage: rle or bitmap")
	pflag.StringArrayVar(&cfg.images, "image", nil, "Picture to embed as NAME=PATH (repeatable)")
	pflag.BoolVar(&cfg.rle, "image-rle", false, "Store pictures as RLE instead of bitmaps")
	pflag.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pflag.Parse()

	return cfg
}

func run(flags flagConfig) error {
	var fontsOut []assets.NamedFont
	if flags.font != "" || len(flags.images) == 0 {
		f, err := compileFont(flags)
		if err != nil {
			return err
		}
		fontsOut = append(fontsOut, f)
	}

	imagesOut := make([]assets.NamedImage, 0, len(flags.images))
	for _, arg := range flags.images {
		img, err := loadImage(arg, flags.rle)
		if err != nil {
			return err
		}
		imagesOut = append(imagesOut, img)
	}

	if flags.output == "" {
		return assets.WriteGo(os.Stdout, flags.pkg, fontsOut, imagesOut)
	}
	return writeFile(flags.output, func(f *os.File) error {
		return assets.WriteGo(f, flags.pkg, fontsOut, imagesOut)
	})
}

func compileFont(flags flagConfig) (assets.NamedFont, error) {
	data := goregular.TTF
	name := flags.fontName
	if flags.font != "" {
		var err error
		if data, err = os.ReadFile(flags.font); err != nil {
			return assets.NamedFont{}, fmt.Errorf("read font: %w", err)
		}
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(flags.font), filepath.Ext(flags.font))
		}
	}
	if name == "" {
		name = "goregular"
	}

	typ := assets.ImageType(strings.ToLower(flags.typ))
	f, err := assets.CompileFont(data, assets.FontOptions{Size: flags.size, Subset: flags.subset, Type: typ})
	if err != nil {
		return assets.NamedFont{}, fmt.Errorf("compile font %s: %w", name, err)
	}
	appLog.Info("font compiled", "name", name, "size", flags.size, "glyphs", len(f.Glyphs), "type", typ)
	return assets.NamedFont{Name: name, Font: f}, nil
}

func loadImage(arg string, rle bool) (assets.NamedImage, error) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok || name == "" || path == "" {
		return assets.NamedImage{}, fmt.Errorf("image %q: want NAME=PATH", arg)
	}
	bm, err := assets.LoadImageFile(path)
	if err != nil {
		return assets.NamedImage{}, err
	}
	var img gfx.Image = bm
	if rle {
		enc, err := assets.EncodeRLE(bm)
		if err != nil {
			return assets.NamedImage{}, fmt.Errorf("image %s: %w", name, err)
		}
		img = enc
	}
	appLog.Info("image loaded", "name", name, "width", bm.Width, "height", bm.Height, "rle", rle)
	return assets.NamedImage{Name: name, Image: img}, nil
}

// writeFile writes through a temp file in the same directory and renames
// it into place.
func writeFile(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".epdgfx-assets-*.go")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

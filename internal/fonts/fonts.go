// Package fonts holds the fonts compiled into the binary.
package fonts

import (
	"sort"
	"strings"

	"epdgfx/internal/gfx"
)

var registry = map[string]*gfx.Font{
	"tiny": Tiny,
}

// Register makes a compiled font available under name, replacing any
// font already registered there. It is meant to be called from init
// functions of generated asset packages.
func Register(name string, f *gfx.Font) {
	registry[strings.ToLower(name)] = f
}

// Lookup returns the font registered under name. The empty name selects
// Tiny.
func Lookup(name string) (*gfx.Font, bool) {
	if name == "" {
		return Tiny, true
	}
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// Names lists the registered fonts in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

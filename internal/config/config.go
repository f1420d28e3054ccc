package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when no --config flag is given.
const DefaultPath = "/etc/epdgfx/config.yaml"

// BasicAuthConfig holds HTTP Basic Auth credentials for the preview server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Panel describes the canvas geometry and output orientation.
type Panel struct {
	Width   int  `yaml:"width" json:"width"`
	Height  int  `yaml:"height" json:"height"`
	MirrorX bool `yaml:"mirror_x" json:"mirror_x"`
	MirrorY bool `yaml:"mirror_y" json:"mirror_y"`
	// ChunkRows is the number of rows rendered per partial frame.
	ChunkRows int `yaml:"chunk_rows" json:"chunk_rows"`
}

// Device holds the SPI and GPIO wiring of the panel.
type Device struct {
	// SPI is the periph port name; empty selects the first port.
	SPI   string `yaml:"spi" json:"spi"`
	MaxHz int64  `yaml:"max_hz" json:"max_hz"`
	DC    string `yaml:"dc" json:"dc"`
	RST   string `yaml:"rst" json:"rst"`
	Busy  string `yaml:"busy" json:"busy"`
	// CS is an optional GPIO driven as chip select. Empty leaves chip
	// select to the SPI controller.
	CS string `yaml:"cs,omitempty" json:"cs,omitempty"`
	// BusyTimeout is in seconds.
	BusyTimeout int `yaml:"busy_timeout" json:"busy_timeout"`
}

// Clip is an optional clip rectangle in canvas coordinates.
type Clip struct {
	Left   int `yaml:"left" json:"left"`
	Top    int `yaml:"top" json:"top"`
	Right  int `yaml:"right" json:"right"`
	Bottom int `yaml:"bottom" json:"bottom"`
}

// Item is a single scene element. Which fields apply depends on Type:
//
//   - clear: Color
//   - rect:  Left, Top, Width, Height, Color
//   - text:  X, Y, Text or TimeFormat, Font, Align, Color
//   - image: X, Y, Path, Color
type Item struct {
	Type  string `yaml:"type" json:"type"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`

	Left   int `yaml:"left,omitempty" json:"left,omitempty"`
	Top    int `yaml:"top,omitempty" json:"top,omitempty"`
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
	Height int `yaml:"height,omitempty" json:"height,omitempty"`

	X int `yaml:"x,omitempty" json:"x,omitempty"`
	Y int `yaml:"y,omitempty" json:"y,omitempty"`

	Text string `yaml:"text,omitempty" json:"text,omitempty"`
	// TimeFormat, if set, replaces Text with the refresh time formatted
	// with a Go layout such as "15:04".
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
	Font       string `yaml:"font,omitempty" json:"font,omitempty"`
	Align      string `yaml:"align,omitempty" json:"align,omitempty"`

	// Path is a PNG or BMP file for image items.
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	Clip *Clip `yaml:"clip,omitempty" json:"clip,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the preview server.
	Listen string `yaml:"listen" json:"listen"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// for periodic panel refresh.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Output is where --render-only writes the preview PNG.
	Output string `yaml:"output" json:"output"`

	Panel  Panel  `yaml:"panel" json:"panel"`
	Device Device `yaml:"device" json:"device"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	Scene []Item `yaml:"scene" json:"scene"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		LogLevel:    "info",
		RefreshCron: "*/15 * * * *",
		Output:      "./cache/preview.png",
		Panel: Panel{
			Width:     400,
			Height:    300,
			ChunkRows: 16,
		},
		Device: Device{
			MaxHz:       2_000_000,
			DC:          "GPIO25",
			RST:         "GPIO17",
			Busy:        "GPIO24",
			BusyTimeout: 30,
		},
		Scene: []Item{
			{Type: "clear", Color: "white"},
			{Type: "rect", Left: 10, Top: 10, Width: 380, Height: 2, Color: "black"},
			{Type: "text", X: 200, Y: 140, TimeFormat: "15:04", Align: "center", Color: "black"},
			{Type: "text", X: 200, Y: 150, TimeFormat: "2006-01-02", Align: "center", Color: "black"},
			{Type: "rect", Left: 10, Top: 288, Width: 380, Height: 2, Color: "black"},
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.RefreshCron == "" {
		c.RefreshCron = def.RefreshCron
	}
	if c.Output == "" {
		c.Output = def.Output
	}

	if c.Panel.Width <= 0 {
		c.Panel.Width = def.Panel.Width
	}
	if c.Panel.Height <= 0 {
		c.Panel.Height = def.Panel.Height
	}
	if c.Panel.ChunkRows <= 0 {
		c.Panel.ChunkRows = def.Panel.ChunkRows
	}
	c.Panel.ChunkRows = min(c.Panel.ChunkRows, c.Panel.Height)

	if c.Device.MaxHz <= 0 {
		c.Device.MaxHz = def.Device.MaxHz
	}
	if c.Device.DC == "" {
		c.Device.DC = def.Device.DC
	}
	if c.Device.RST == "" {
		c.Device.RST = def.Device.RST
	}
	if c.Device.Busy == "" {
		c.Device.Busy = def.Device.Busy
	}
	if c.Device.BusyTimeout <= 0 {
		c.Device.BusyTimeout = def.Device.BusyTimeout
	}

	if c.Scene == nil {
		c.Scene = []Item{}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Still hand back the defaults so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config: path is empty")
	}
	if cfg == nil {
		return errors.New("config: config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".epdgfx-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

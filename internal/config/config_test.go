package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Panel.Width != 400 || cfg.Panel.Height != 300 || cfg.Panel.ChunkRows != 16 {
		t.Errorf("panel = %+v", cfg.Panel)
	}
	if len(cfg.Scene) == 0 {
		t.Error("default scene is empty")
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again.Device != cfg.Device || len(again.Scene) != len(cfg.Scene) {
		t.Errorf("reloaded config differs: %+v vs %+v", again, cfg)
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
panel:
  width: 128
  height: 10
  mirror_y: true
  chunk_rows: 64
device:
  spi: SPI0.1
  cs: GPIO8
scene:
  - type: rect
    left: 1
    top: 2
    width: 3
    height: 4
    color: black
    clip: {left: 0, top: 0, right: 2, bottom: 10}
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" || cfg.RefreshCron != "*/15 * * * *" {
		t.Errorf("top level defaults not applied: %+v", cfg)
	}
	if !cfg.Panel.MirrorY || cfg.Panel.Width != 128 || cfg.Panel.ChunkRows != 10 {
		t.Errorf("panel = %+v", cfg.Panel)
	}
	want := Device{SPI: "SPI0.1", MaxHz: 2_000_000, DC: "GPIO25", RST: "GPIO17", Busy: "GPIO24", CS: "GPIO8", BusyTimeout: 30}
	if cfg.Device != want {
		t.Errorf("device = %+v, want %+v", cfg.Device, want)
	}
	if len(cfg.Scene) != 1 || cfg.Scene[0].Clip == nil || cfg.Scene[0].Clip.Right != 2 {
		t.Errorf("scene = %+v", cfg.Scene)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("panel: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestSaveErrors(t *testing.T) {
	if err := Save("", DefaultConfig()); err == nil {
		t.Error("Save with empty path succeeded")
	}
	if err := Save(filepath.Join(t.TempDir(), "c.yaml"), nil); err == nil {
		t.Error("Save with nil config succeeded")
	}
	if _, err := Load(""); err == nil {
		t.Error("Load with empty path succeeded")
	}
}

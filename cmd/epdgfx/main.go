package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"

	"epdgfx/internal/config"
	"epdgfx/internal/convert"
	"epdgfx/internal/epd"
	"epdgfx/internal/gfx"
	appLog "epdgfx/internal/log"
	"epdgfx/internal/scene"
	"epdgfx/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	output     string
	logLevel   string
	once       bool
	renderOnly bool
	dump       bool
}

func main() {
	flags := parseFlags()
	if err := run(flags); err != nil {
		appLog.Error("epdgfx failed", err)
		os.Exit(1)
	}
	appLog.Info("epdgfx exiting")
}

// run holds everything main does so that deferred cleanup, such as
// closing the panel, happens before the process exits.
func run(flags flagConfig) error {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", flags.configPath, err)
	}

	// CLI flags override the config file if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.output != "" {
		conf.Output = flags.output
	}
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("epdgfx starting",
		"listen", conf.Listen,
		"refresh", conf.RefreshCron,
		"panel", formatPanel(conf.Panel),
		"items", len(conf.Scene),
		"once", flags.once,
		"render_only", flags.renderOnly,
		"dump", flags.dump,
	)

	sc, err := scene.New(conf.Scene)
	if err != nil {
		return err
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			appLog.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	p := newPipeline(conf, sc, flags.dump)
	if !flags.renderOnly {
		dev, err := epd.Open(conf.Device, conf.Panel.Width, conf.Panel.Height)
		if err != nil {
			return fmt.Errorf("open panel on %q: %w", conf.Device.SPI, err)
		}
		defer func() {
			if err := dev.Close(); err != nil {
				appLog.Warn("failed to close panel", "error", err.Error())
			}
		}()
		p.dev = dev
	}

	if flags.once {
		if err := p.refresh(ctx); err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		return nil
	}

	if err := runDaemon(ctx, conf, sc, p); err != nil {
		return fmt.Errorf("daemon: %w", err)
	}
	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	pflag.StringVarP(&cfg.configPath, "config", "c", config.DefaultPath, "Path to config file")
	pflag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	pflag.StringVarP(&cfg.output, "output", "o", "", "Preview PNG path for --render-only (overrides config if set)")
	pflag.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config if set)")
	pflag.BoolVar(&cfg.once, "once", false, "Run one render(+display) cycle and exit")
	pflag.BoolVar(&cfg.renderOnly, "render-only", false, "Render to the preview file; do not touch display hardware")
	pflag.BoolVar(&cfg.dump, "dump", false, "Also write the packed panel bytes next to the preview")
	pflag.Parse()

	return cfg
}

func formatPanel(p config.Panel) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(p.Width) + "x" + strconv.Itoa(p.Height))
	if p.MirrorX {
		b.WriteString(" mirror-x")
	}
	if p.MirrorY {
		b.WriteString(" mirror-y")
	}
	return b.String()
}

// pipeline renders the scene and pushes it to the panel or the preview
// file. Refreshes never overlap.
type pipeline struct {
	conf  *config.Config
	scene *scene.Scene
	dev   *epd.Dev
	dump  bool
	now   func() time.Time

	mu sync.Mutex
}

func newPipeline(conf *config.Config, sc *scene.Scene, dump bool) *pipeline {
	return &pipeline{conf: conf, scene: sc, dump: dump, now: time.Now}
}

func (p *pipeline) refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	now := p.now()
	panel := p.conf.Panel

	if p.dev == nil {
		if err := p.renderFile(now); err != nil {
			return err
		}
		appLog.Info("preview written", "path", p.conf.Output, "elapsed", time.Since(start))
		return nil
	}

	// The controller sleeps between refreshes, so every cycle starts with
	// a reset.
	if err := p.dev.Init(ctx); err != nil {
		return err
	}
	if err := p.dev.Display(ctx, p.scene.Frame(panel, now), panel.ChunkRows); err != nil {
		return err
	}
	if err := p.dev.Sleep(ctx); err != nil {
		return err
	}
	appLog.Info("panel refreshed", "elapsed", time.Since(start))
	return nil
}

// renderFile writes the un-mirrored preview and, with dump, the bytes as
// the panel would receive them.
func (p *pipeline) renderFile(now time.Time) error {
	panel := p.conf.Panel
	preview := gfx.NewFrame(panel.Width, panel.Height, p.scene.Snapshot(now))
	if err := convert.WritePNG(p.conf.Output, convert.Rasterize(preview, panel.ChunkRows)); err != nil {
		return err
	}
	if !p.dump {
		return nil
	}
	raw := convert.Pack(p.scene.Frame(panel, now), panel.ChunkRows)
	path := strings.TrimSuffix(p.conf.Output, ".png") + ".bin"
	if err := convert.WriteRaw(path, raw); err != nil {
		return err
	}
	appLog.Info("panel bytes written", "path", path, "bytes", len(raw))
	return nil
}

// runDaemon refreshes once, then on the cron schedule, and serves the
// preview until ctx is cancelled.
func runDaemon(ctx context.Context, conf *config.Config, sc *scene.Scene, p *pipeline) error {
	if err := p.refresh(ctx); err != nil {
		appLog.Error("initial refresh failed", err)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})), cron.WithLogger(cronLogger{}))
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := p.refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	srv := web.NewServer(conf, sc, p.refresh)
	return srv.Serve(ctx)
}

// cronLogger forwards cron's own messages to the application log.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...any) {
	appLog.Debug("cron: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...any) {
	appLog.Error("cron: "+msg, err, kv...)
}

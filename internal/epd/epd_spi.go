// Package epd drives a single-controller SPI e-paper panel (UC8176 class,
// such as the 400x300 4.2" modules) in pure Go using periph.io. Frames are
// streamed to the controller part by part, so the host never holds more
// than one partial frame buffer.
package epd

import (
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"epdgfx/internal/config"
	appLog "epdgfx/internal/log"
)

// Conn is the part of spi.Conn the driver uses.
type Conn interface {
	Tx(w, r []byte) error
}

// OutPin is the part of gpio.PinOut the driver uses.
type OutPin interface {
	Out(l gpio.Level) error
}

// InPin is the part of gpio.PinIn the driver uses.
type InPin interface {
	Read() gpio.Level
}

// Pins is the wiring of one panel. CS may be nil when the SPI controller
// drives chip select itself.
type Pins struct {
	DC   OutPin
	RST  OutPin
	CS   OutPin
	Busy InPin
}

// Open initializes periph.io, opens the configured SPI port and resolves
// the GPIO pins by name.
func Open(cfg config.Device, width, height int) (*Dev, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("epd: periph host init failed: %w", err)
	}

	port, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, fmt.Errorf("epd: failed to open SPI port %q: %w", cfg.SPI, err)
	}

	conn, err := port.Connect(physic.Frequency(cfg.MaxHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("epd: failed to connect SPI: %w", err)
	}

	pins, err := resolvePins(cfg)
	if err != nil {
		_ = port.Close()
		return nil, err
	}

	d := New(conn, pins, width, height)
	d.closer = port
	if cfg.BusyTimeout > 0 {
		d.busyTimeout = time.Duration(cfg.BusyTimeout) * time.Second
	}
	appLog.Info("epd: opened", "spi", conn, "dc", cfg.DC, "rst", cfg.RST, "busy", cfg.Busy, "cs", cfg.CS)
	return d, nil
}

func resolvePins(cfg config.Device) (Pins, error) {
	out := func(name string, initial gpio.Level) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("epd: gpio %s not found", name)
		}
		if err := p.Out(initial); err != nil {
			return nil, fmt.Errorf("epd: gpio %s Out failed: %w", name, err)
		}
		return p, nil
	}

	var pins Pins
	var err error
	if pins.DC, err = out(cfg.DC, gpio.Low); err != nil {
		return Pins{}, err
	}
	if pins.RST, err = out(cfg.RST, gpio.High); err != nil {
		return Pins{}, err
	}
	if cfg.CS != "" {
		if pins.CS, err = out(cfg.CS, gpio.High); err != nil {
			return Pins{}, err
		}
	}

	busy := gpioreg.ByName(cfg.Busy)
	if busy == nil {
		return Pins{}, fmt.Errorf("epd: gpio %s not found", cfg.Busy)
	}
	if err := busy.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return Pins{}, fmt.Errorf("epd: gpio %s In failed: %w", cfg.Busy, err)
	}
	pins.Busy = busy
	return pins, nil
}

// Close releases the SPI port. Pins need no explicit release.
func (d *Dev) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

var _ io.Closer = (*Dev)(nil)

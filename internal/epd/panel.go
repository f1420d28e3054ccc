package epd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/gpio"

	"epdgfx/internal/gfx"
	appLog "epdgfx/internal/log"
)

// Controller commands.
const (
	cmdPanelSetting    = 0x00
	cmdPowerSetting    = 0x01
	cmdPowerOff        = 0x02
	cmdPowerOn         = 0x04
	cmdBoosterStart    = 0x06
	cmdDeepSleep       = 0x07
	cmdOldData         = 0x10
	cmdRefresh         = 0x12
	cmdNewData         = 0x13
	cmdPLL             = 0x30
	cmdVCOMInterval    = 0x50
	cmdResolution      = 0x61
	cmdVCOMDC          = 0x82
	cmdGetStatus       = 0x71
	deepSleepCheckCode = 0xA5
)

// maxTransfer is the largest single SPI write. spidev rejects anything
// bigger than its buffer, 4096 bytes by default.
const maxTransfer = 4096

// ErrBusyTimeout is returned when the panel stays busy past the timeout.
var ErrBusyTimeout = errors.New("epd: panel busy timeout")

// Dev is one panel behind an SPI connection.
type Dev struct {
	conn   Conn
	pins   Pins
	width  int
	height int

	busyTimeout time.Duration
	closer      io.Closer

	// delay waits between reset and power steps; tests replace it.
	delay func(ctx context.Context, d time.Duration) error
}

// New returns a driver for a width x height panel. It does not touch the
// hardware until Init.
func New(conn Conn, pins Pins, width, height int) *Dev {
	return &Dev{
		conn:        conn,
		pins:        pins,
		width:       width,
		height:      height,
		busyTimeout: 30 * time.Second,
		delay:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Dev) Width() int  { return d.width }
func (d *Dev) Height() int { return d.height }

// Init resets the controller and runs the power, booster, panel and
// resolution sequence, using the waveforms stored in the panel OTP.
func (d *Dev) Init(ctx context.Context) error {
	if err := d.reset(ctx); err != nil {
		return err
	}

	w, h := d.width, d.height
	steps := []struct {
		cmd  byte
		data []byte
	}{
		{cmdPowerSetting, []byte{0x03, 0x00, 0x2b, 0x2b, 0xff}},
		{cmdBoosterStart, []byte{0x17, 0x17, 0x17}},
		{cmdPowerOn, nil},
	}
	for _, s := range steps {
		if err := d.send(s.cmd, s.data...); err != nil {
			return err
		}
	}
	if err := d.waitIdle(ctx); err != nil {
		return err
	}

	steps = []struct {
		cmd  byte
		data []byte
	}{
		// KW mode, LUT from OTP, scan up and right, booster on.
		{cmdPanelSetting, []byte{0x1f}},
		{cmdPLL, []byte{0x3c}},
		{cmdResolution, []byte{byte(w >> 8), byte(w), byte(h >> 8), byte(h)}},
		{cmdVCOMDC, []byte{0x28}},
		{cmdVCOMInterval, []byte{0x97}},
	}
	for _, s := range steps {
		if err := d.send(s.cmd, s.data...); err != nil {
			return err
		}
	}
	appLog.Info("epd: panel initialized", "width", w, "height", h)
	return nil
}

// reset pulses RST low.
func (d *Dev) reset(ctx context.Context) error {
	seq := []struct {
		level gpio.Level
		hold  time.Duration
	}{
		{gpio.High, 200 * time.Millisecond},
		{gpio.Low, 10 * time.Millisecond},
		{gpio.High, 200 * time.Millisecond},
	}
	for _, s := range seq {
		if err := d.pins.RST.Out(s.level); err != nil {
			return fmt.Errorf("epd: reset: %w", err)
		}
		if err := d.delay(ctx, s.hold); err != nil {
			return err
		}
	}
	return nil
}

// Display streams frame to the controller chunkRows rows at a time and
// refreshes the panel. The frame size must match the panel. Parts are
// rendered into one reused buffer that starts zeroed for every part.
func (d *Dev) Display(ctx context.Context, frame *gfx.Frame, chunkRows int) error {
	if frame.Width() != d.width || frame.Height() != d.height {
		return fmt.Errorf("epd: frame is %dx%d, panel is %dx%d", frame.Width(), frame.Height(), d.width, d.height)
	}
	start := time.Now()
	rows := min(max(chunkRows, 1), d.height)
	stride := frame.Stride()
	buf := make([]byte, stride*rows)

	if err := d.command(cmdNewData); err != nil {
		return err
	}
	parts := 0
	for row := 0; row < d.height; row += rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := min(rows, d.height-row)
		part := buf[:stride*n]
		clear(part)
		frame.DrawPart(row, part)
		if err := d.data(part); err != nil {
			return err
		}
		parts++
	}
	appLog.Debug("epd: frame sent", "parts", parts, "rows", rows, "bytes", stride*d.height, "elapsed", time.Since(start))

	return d.refresh(ctx)
}

// Clear writes an all white image into both frame memories and refreshes.
func (d *Dev) Clear(ctx context.Context) error {
	stride := gfx.Stride(d.width, 1)
	white := make([]byte, min(stride*d.height, maxTransfer))
	for i := range white {
		white[i] = 0xff
	}
	for _, cmd := range []byte{cmdOldData, cmdNewData} {
		if err := d.command(cmd); err != nil {
			return err
		}
		for left := stride * d.height; left > 0; left -= len(white) {
			if err := d.data(white[:min(left, len(white))]); err != nil {
				return err
			}
		}
	}
	return d.refresh(ctx)
}

// Sleep powers the panel off and puts the controller in deep sleep. Only
// a hardware reset, as done by Init, wakes it up again.
func (d *Dev) Sleep(ctx context.Context) error {
	if err := d.command(cmdPowerOff); err != nil {
		return err
	}
	if err := d.waitIdle(ctx); err != nil {
		return err
	}
	if err := d.send(cmdDeepSleep, deepSleepCheckCode); err != nil {
		return err
	}
	appLog.Info("epd: panel asleep")
	return nil
}

func (d *Dev) refresh(ctx context.Context) error {
	if err := d.command(cmdRefresh); err != nil {
		return err
	}
	if err := d.delay(ctx, 100*time.Millisecond); err != nil {
		return err
	}
	return d.waitIdle(ctx)
}

// waitIdle polls the status until the busy line goes high. Low means
// busy.
func (d *Dev) waitIdle(ctx context.Context) error {
	deadline := time.Now().Add(d.busyTimeout)
	for {
		if err := d.command(cmdGetStatus); err != nil {
			return err
		}
		if d.pins.Busy.Read() == gpio.High {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrBusyTimeout
		}
		if err := d.delay(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
}

func (d *Dev) send(cmd byte, data ...byte) error {
	if err := d.command(cmd); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.data(data)
}

func (d *Dev) command(cmd byte) error {
	if err := d.write(gpio.Low, []byte{cmd}); err != nil {
		return fmt.Errorf("epd: command %#02x: %w", cmd, err)
	}
	return nil
}

func (d *Dev) data(b []byte) error {
	if err := d.write(gpio.High, b); err != nil {
		return fmt.Errorf("epd: data: %w", err)
	}
	return nil
}

// write sends b with DC at level, framed by CS if the driver owns it.
func (d *Dev) write(dc gpio.Level, b []byte) (err error) {
	if err := d.pins.DC.Out(dc); err != nil {
		return err
	}
	if d.pins.CS != nil {
		if err := d.pins.CS.Out(gpio.Low); err != nil {
			return err
		}
		defer func() {
			if csErr := d.pins.CS.Out(gpio.High); csErr != nil && err == nil {
				err = fmt.Errorf("release chip select: %w", csErr)
			}
		}()
	}
	for len(b) > 0 {
		n := min(len(b), maxTransfer)
		if err := d.conn.Tx(b[:n], nil); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

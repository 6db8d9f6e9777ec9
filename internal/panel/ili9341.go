package panel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// ILI9341 command set.
const (
	cmdSWReset  = 0x01
	cmdSleepOut = 0x11
	cmdDispOff  = 0x28
	cmdDispOn   = 0x29
	cmdCASet    = 0x2A
	cmdRASet    = 0x2B
	cmdRAMWr    = 0x2C
	cmdMADCtl   = 0x36
	cmdCOLMod   = 0x3A

	madctlLandscape = 0x28 // MV | BGR
	colmod16bpp     = 0x55

	defaultSPISpeed = 40_000_000
	defaultTxChunk  = 4096
)

// ILI9341 drives an ILI9341 controller over SPI with a D/C line.
type ILI9341 struct {
	width, height int

	port spi.PortCloser
	conn spi.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut
	bl   gpio.PinOut

	mu    sync.Mutex
	chunk int
}

var _ display.Drawer = (*ILI9341)(nil)

func OpenILI9341(ctx context.Context, opts Options) (*ILI9341, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(opts.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", opts.SPIPort, err)
	}
	speed := opts.SPISpeedHz
	if speed <= 0 {
		speed = defaultSPISpeed
	}
	c, err := port.Connect(physic.Frequency(speed)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect spi: %w", err)
	}

	dc := gpioreg.ByName(opts.DCPin)
	if dc == nil {
		_ = port.Close()
		return nil, fmt.Errorf("dc pin %q not found", opts.DCPin)
	}
	d := &ILI9341{width: opts.Width, height: opts.Height, port: port, conn: c, dc: dc}
	if opts.ResetPin != "" {
		d.rst = gpioreg.ByName(opts.ResetPin)
	}
	if opts.BacklightPin != "" {
		d.bl = gpioreg.ByName(opts.BacklightPin)
	}
	if d.width <= 0 {
		d.width = 320
	}
	if d.height <= 0 {
		d.height = 240
	}
	d.chunk = defaultTxChunk
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 && l.MaxTxSize() < d.chunk {
		d.chunk = l.MaxTxSize()
	}

	if err := d.init(ctx); err != nil {
		_ = port.Close()
		return nil, err
	}
	return d, nil
}

func (d *ILI9341) init(ctx context.Context) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("reset low: %w", err)
		}
		if err := sleepCtx(ctx, 10*time.Millisecond); err != nil {
			return err
		}
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("reset high: %w", err)
		}
		if err := sleepCtx(ctx, 120*time.Millisecond); err != nil {
			return err
		}
	}
	steps := []struct {
		cmd   byte
		data  []byte
		pause time.Duration
	}{
		{cmd: cmdSWReset, pause: 150 * time.Millisecond},
		{cmd: cmdSleepOut, pause: 120 * time.Millisecond},
		{cmd: cmdCOLMod, data: []byte{colmod16bpp}},
		{cmd: cmdMADCtl, data: []byte{madctlLandscape}},
		{cmd: cmdDispOn},
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return fmt.Errorf("init 0x%02X: %w", s.cmd, err)
		}
		if s.pause > 0 {
			if err := sleepCtx(ctx, s.pause); err != nil {
				return err
			}
		}
	}
	return nil
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

// command sends cmd with D/C low, then data with D/C high. Caller holds mu.
func (d *ILI9341) command(cmd byte, data ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return d.write(data)
}

func (d *ILI9341) write(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for off := 0; off < len(data); off += d.chunk {
		end := off + d.chunk
		if end > len(data) {
			end = len(data)
		}
		if err := d.conn.Tx(data[off:end], nil); err != nil {
			return err
		}
	}
	return nil
}

func (d *ILI9341) setWindow(r image.Rectangle) error {
	x0, x1 := uint16(r.Min.X), uint16(r.Max.X-1)
	y0, y1 := uint16(r.Min.Y), uint16(r.Max.Y-1)
	if err := d.command(cmdCASet, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.command(cmdRASet, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	return d.command(cmdRAMWr)
}

func (d *ILI9341) Size() (int, int) { return d.width, d.height }

// DrawBitmap sends the window and pixels over SPI; the bus transfer is
// synchronous so done runs before it returns.
func (d *ILI9341) DrawBitmap(rect image.Rectangle, pix []byte, done func()) error {
	if err := checkBitmap(d.width, d.height, rect, pix); err != nil {
		return err
	}
	d.mu.Lock()
	err := d.setWindow(rect)
	if err == nil {
		err = d.write(pix)
	}
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("ili9341 draw %v: %w", rect, err)
	}
	if done != nil {
		done()
	}
	return nil
}

func (d *ILI9341) SetDisplayOn(on bool) error {
	cmd := byte(cmdDispOff)
	if on {
		cmd = cmdDispOn
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.command(cmd)
}

func (d *ILI9341) SetBacklight(on bool) error {
	if d.bl == nil {
		return nil
	}
	return d.bl.Out(gpio.Level(on))
}

func (d *ILI9341) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

func (d *ILI9341) String() string { return "ILI9341" }

// Halt turns the panel and backlight off.
func (d *ILI9341) Halt() error {
	return errors.Join(d.SetDisplayOn(false), d.SetBacklight(false))
}

func (d *ILI9341) ColorModel() color.Model { return color.RGBAModel }

func (d *ILI9341) Bounds() image.Rectangle { return image.Rect(0, 0, d.width, d.height) }

// Draw implements display.Drawer for callers holding arbitrary images.
func (d *ILI9341) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	r := dstRect.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, srcPts.Add(r.Min.Sub(dstRect.Min)), draw.Src)
	pix := make([]byte, 0, r.Dx()*r.Dy()*2)
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			v := RGB565(rgba.RGBAAt(x, y))
			pix = append(pix, byte(v>>8), byte(v))
		}
	}
	return d.DrawBitmap(r, pix, nil)
}

// Package panel drives the physical display.
package panel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Panel is the display hardware contract.
//
// DrawBitmap starts writing pix (big-endian RGB565, row-major, exactly
// rect.Dx()*rect.Dy()*2 bytes) to rect and calls done once the transfer
// has completed. done may run on another goroutine and must not block.
// The caller must not reuse pix until done has been called.
type Panel interface {
	Size() (width, height int)
	DrawBitmap(rect image.Rectangle, pix []byte, done func()) error
	SetDisplayOn(on bool) error
	SetBacklight(on bool) error
	Close() error
}

// Snapshotter is implemented by panels that can read back what is shown.
type Snapshotter interface {
	Snapshot() image.Image
}

var ErrBadBitmap = errors.New("bitmap does not match rectangle")

func checkBitmap(w, h int, rect image.Rectangle, pix []byte) error {
	if rect.Empty() || !rect.In(image.Rect(0, 0, w, h)) {
		return fmt.Errorf("%w: rectangle %v outside %dx%d panel", ErrBadBitmap, rect, w, h)
	}
	if want := rect.Dx() * rect.Dy() * 2; len(pix) != want {
		return fmt.Errorf("%w: %d bytes for %v, want %d", ErrBadBitmap, len(pix), rect, want)
	}
	return nil
}

// RGB565 packs c into 5-6-5 bits.
func RGB565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16((r>>11)<<11 | (g>>10)<<5 | b>>11)
}

// RGBA expands a 5-6-5 value to 8 bits per channel.
func RGBA(v uint16) color.RGBA {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xFF}
}

// Drivers names accepted by Open.
const (
	DriverMemory  = "memory"
	DriverFBDev   = "fbdev"
	DriverILI9341 = "ili9341"
)

// Options selects and configures a driver.
type Options struct {
	Driver string
	Width  int
	Height int

	// fbdev
	Device        string
	BacklightPath string

	// ili9341
	SPIPort      string
	SPISpeedHz   int64
	DCPin        string
	ResetPin     string
	BacklightPin string
}

// Open returns the driver named by opts.Driver.
func Open(ctx context.Context, opts Options) (Panel, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(opts.Width, opts.Height), nil
	case DriverFBDev:
		p, err := OpenFBDev(opts.Device, opts.BacklightPath)
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverILI9341:
		p, err := OpenILI9341(ctx, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown panel driver %q", opts.Driver)
	}
}

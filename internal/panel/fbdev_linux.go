//go:build linux

package panel

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	fb "github.com/gonutz/framebuffer"
	"golang.org/x/sys/unix"
)

// linux/fb.h
const (
	fbioBlank        = 0x4611
	fbBlankUnblank   = 0
	fbBlankPowerdown = 4

	defaultFBDevice = "/dev/fb0"
	blPowerOn       = "0"
	blPowerOff      = "4"
)

// FBDev writes to a Linux framebuffer device, as exposed by the fbtft
// ILI9341 driver for example.
type FBDev struct {
	path          string
	backlightPath string

	mu  sync.Mutex
	dev *fb.Device
}

func OpenFBDev(path, backlightPath string) (*FBDev, error) {
	if path == "" {
		path = defaultFBDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer %s: %w", path, err)
	}
	return &FBDev{path: path, backlightPath: backlightPath, dev: dev}, nil
}

func (f *FBDev) Size() (int, int) {
	b := f.dev.Bounds()
	return b.Dx(), b.Dy()
}

// DrawBitmap writes synchronously; done runs before it returns.
func (f *FBDev) DrawBitmap(rect image.Rectangle, pix []byte, done func()) error {
	w, h := f.Size()
	if err := checkBitmap(w, h, rect, pix); err != nil {
		return err
	}
	f.mu.Lock()
	bounds := f.dev.Bounds()
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := RGBA(uint16(pix[i])<<8 | uint16(pix[i+1]))
			f.dev.Set(bounds.Min.X+x, bounds.Min.Y+y, c)
			i += 2
		}
	}
	f.mu.Unlock()
	if done != nil {
		done()
	}
	return nil
}

func (f *FBDev) SetDisplayOn(on bool) error {
	fd, err := unix.Open(f.path, unix.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer unix.Close(fd)
	mode := fbBlankPowerdown
	if on {
		mode = fbBlankUnblank
	}
	if err := unix.IoctlSetInt(fd, fbioBlank, mode); err != nil {
		return fmt.Errorf("FBIOBLANK %d on %s: %w", mode, f.path, err)
	}
	return nil
}

// SetBacklight writes bl_power under backlightPath, when configured.
func (f *FBDev) SetBacklight(on bool) error {
	if f.backlightPath == "" {
		return nil
	}
	v := blPowerOff
	if on {
		v = blPowerOn
	}
	if err := os.WriteFile(f.backlightPath, []byte(v), 0o644); err != nil {
		return fmt.Errorf("backlight %s: %w", f.backlightPath, err)
	}
	return nil
}

func (f *FBDev) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dev.Close()
	return nil
}

func (f *FBDev) Snapshot() image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.dev.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			img.Set(x, y, color.RGBAModel.Convert(f.dev.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return img
}

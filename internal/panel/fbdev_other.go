//go:build !linux

package panel

import (
	"errors"
	"image"
)

// FBDev is only available on Linux.
type FBDev struct{}

func OpenFBDev(path, backlightPath string) (*FBDev, error) {
	return nil, errors.New("framebuffer panel requires linux")
}

func (*FBDev) Size() (int, int)                                { return 0, 0 }
func (*FBDev) DrawBitmap(image.Rectangle, []byte, func()) error { return errors.ErrUnsupported }
func (*FBDev) SetDisplayOn(bool) error                         { return errors.ErrUnsupported }
func (*FBDev) SetBacklight(bool) error                         { return errors.ErrUnsupported }
func (*FBDev) Close() error                                    { return nil }

// Package touch delivers touch edges from the panel's touch controller to
// the refresh activity.
package touch

import (
	"context"
	"fmt"

	"github.com/rook-computer/wordclock/internal/logging"
)

// Flag is the edge-triggered touch flag. Raise never blocks; a touch that
// arrives while one is still pending is coalesced into it.
type Flag struct {
	ch chan struct{}
}

func NewFlag() *Flag {
	return &Flag{ch: make(chan struct{}, 1)}
}

// Raise sets the flag. It is safe to call from any goroutine, including
// driver callbacks that must not block.
func (f *Flag) Raise() bool {
	select {
	case f.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Take reports whether the flag was set and clears it.
func (f *Flag) Take() bool {
	select {
	case <-f.ch:
		return true
	default:
		return false
	}
}

// Driver watches a touch controller and calls onTouch on every touch-down
// edge until ctx is done.
type Driver interface {
	Watch(ctx context.Context, onTouch func()) error
	Close() error
}

type NoopDriver struct{}

func (NoopDriver) Watch(ctx context.Context, onTouch func()) error {
	<-ctx.Done()
	return nil
}

func (NoopDriver) Close() error { return nil }

const (
	DriverNone  = "none"
	DriverGPIO  = "gpio"
	DriverEvdev = "evdev"
)

type Options struct {
	Driver string
	Pin    string
	Device string
	Logger logging.Logger
}

// Open returns the driver named by opts.Driver.
func Open(opts Options) (Driver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	switch opts.Driver {
	case "", DriverNone:
		return NoopDriver{}, nil
	case DriverGPIO:
		d, err := OpenGPIO(opts.Pin)
		if err != nil {
			return nil, err
		}
		return d, nil
	case DriverEvdev:
		return &Evdev{Path: opts.Device, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown touch driver %q", opts.Driver)
	}
}

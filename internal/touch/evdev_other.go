//go:build !linux

package touch

import (
	"context"
	"errors"

	"github.com/rook-computer/wordclock/internal/logging"
)

type Evdev struct {
	Path   string
	Logger logging.Logger
}

func (e *Evdev) Watch(ctx context.Context, onTouch func()) error { return errors.ErrUnsupported }
func (e *Evdev) Close() error                                     { return nil }

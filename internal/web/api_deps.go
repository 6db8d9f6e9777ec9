package web

import (
	"context"
	"errors"
	"image"

	"github.com/rook-computer/wordclock/internal/state"
)

// StatusSource is typically *state.Store.
type StatusSource interface {
	Snapshot() state.Status
}

// ScreenSource returns the current panel contents, or nil when the panel
// cannot be read back.
type ScreenSource func() image.Image

type APIV1Deps struct {
	Status StatusSource
	// Touch injects a touch through the same path as the touch driver.
	Touch func()
	Screen ScreenSource
	// LinkURL is the address phones should open; it is encoded in link.png.
	LinkURL func(ctx context.Context) (string, error)
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Status == nil {
		out.Status = state.NewStore()
	}
	if out.LinkURL == nil {
		out.LinkURL = func(context.Context) (string, error) {
			return "", errors.New("link url not configured")
		}
	}
	return out
}

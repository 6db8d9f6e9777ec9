//go:build !ebiten

package main

import (
	"context"
	"errors"

	"github.com/rook-computer/wordclock/internal/panel"
)

func runWindow(ctx context.Context, mem *panel.Memory, onTouch func()) error {
	return errors.New("simulator built without the ebiten tag")
}

//go:build ebiten

package main

import (
	"context"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rook-computer/wordclock/internal/panel"
)

// runWindow shows the memory panel scaled 2x. A left click is a touch.
// It blocks until the window closes or ctx is done.
func runWindow(ctx context.Context, mem *panel.Memory, onTouch func()) error {
	w, h := mem.Size()
	ebiten.SetWindowTitle("Wordclock simulator")
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetTPS(30)
	err := ebiten.RunGame(&panelGame{ctx: ctx, mem: mem, onTouch: onTouch})
	if err == ebiten.Termination {
		return nil
	}
	return err
}

type panelGame struct {
	ctx     context.Context
	mem     *panel.Memory
	onTouch func()
	img     *ebiten.Image
}

func (g *panelGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.onTouch != nil {
		g.onTouch()
	}
	return nil
}

func (g *panelGame) Draw(screen *ebiten.Image) {
	snap, ok := g.mem.Snapshot().(*image.RGBA)
	if !ok {
		return
	}
	if g.img == nil {
		b := snap.Bounds()
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.img.WritePixels(snap.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *panelGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.mem.Size()
}

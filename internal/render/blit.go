package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rook-computer/wordclock/internal/panel"
	"github.com/rook-computer/wordclock/internal/render/layout"
)

// FillBands is how many horizontal bands a full-screen fill is cut into.
// It matches the bits per pixel so one band buffer stays small.
const FillBands = 16

const defaultTransferTimeout = time.Second

var ErrTransferTimeout = errors.New("panel transfer did not complete")

// Blitter streams pixel buffers to a panel one segment at a time. Each
// segment waits for the panel's completion callback before the next one is
// issued, so the segment buffer can be reused or dropped right after.
type Blitter struct {
	Panel   panel.Panel
	Timeout time.Duration
}

type segment struct {
	rect image.Rectangle
	pix  []byte
}

// Fill paints the whole panel with c, band by band, reusing one band buffer.
func (b *Blitter) Fill(ctx context.Context, c uint16) error {
	w, h := b.Panel.Size()
	bands := layout.Bands(image.Rect(0, 0, w, h), FillBands)
	band := Solid(w, bands[len(bands)-1].Dy(), c)

	segs := make([]segment, 0, len(bands))
	for _, r := range bands {
		segs = append(segs, segment{rect: r, pix: band.Pix[:r.Dx()*r.Dy()*BytesPerPixel]})
	}
	return b.run(ctx, segs)
}

// Blit writes buf with its top-left at p, one display row per segment.
func (b *Blitter) Blit(ctx context.Context, p image.Point, buf PixelBuffer) error {
	rows := layout.Rows(layout.AnchorAt(p, buf.Width, buf.Height))
	segs := make([]segment, 0, len(rows))
	for i, r := range rows {
		segs = append(segs, segment{rect: r, pix: buf.Row(i)})
	}
	return b.run(ctx, segs)
}

// run owns one completion semaphore for the whole sequence.
func (b *Blitter) run(ctx context.Context, segs []segment) error {
	if b.Panel == nil {
		return nil
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultTransferTimeout
	}

	sem := make(chan struct{}, 1)
	give := func() {
		select {
		case sem <- struct{}{}:
		default:
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for _, s := range segs {
		if err := b.Panel.DrawBitmap(s.rect, s.pix, give); err != nil {
			return fmt.Errorf("draw %v: %w", s.rect, err)
		}
		timer.Reset(timeout)
		select {
		case <-sem:
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("%w: %v after %v", ErrTransferTimeout, s.rect, timeout)
		}
	}
	return nil
}

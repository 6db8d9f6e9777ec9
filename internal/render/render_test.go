package render

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rook-computer/wordclock/internal/font"
	"github.com/rook-computer/wordclock/internal/panel"
	"github.com/stretchr/testify/require"
)

// recordingPanel completes every draw on another goroutine and fails the
// test if a second draw is issued before the first completed.
type recordingPanel struct {
	w, h int

	mu    sync.Mutex
	rects []image.Rectangle

	inflight   atomic.Int32
	overlap    atomic.Bool
	noComplete bool
	failAfter  int
}

func (p *recordingPanel) Size() (int, int) { return p.w, p.h }

func (p *recordingPanel) DrawBitmap(rect image.Rectangle, pix []byte, done func()) error {
	p.mu.Lock()
	n := len(p.rects)
	p.rects = append(p.rects, rect)
	p.mu.Unlock()
	if p.failAfter > 0 && n+1 >= p.failAfter {
		return errors.New("spi bus error")
	}
	if len(pix) != rect.Dx()*rect.Dy()*2 {
		return panel.ErrBadBitmap
	}
	if p.inflight.Add(1) > 1 {
		p.overlap.Store(true)
	}
	if p.noComplete {
		return nil
	}
	go func() {
		time.Sleep(time.Millisecond)
		p.inflight.Add(-1)
		done()
	}()
	return nil
}

func (p *recordingPanel) SetDisplayOn(bool) error { return nil }
func (p *recordingPanel) SetBacklight(bool) error { return nil }
func (p *recordingPanel) Close() error            { return nil }

func (p *recordingPanel) drawn() []image.Rectangle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]image.Rectangle(nil), p.rects...)
}

// block returns a solid glyph of w×h.
func block(w, h int) font.Glyph {
	data := make([]byte, font.Stride(w)*h)
	for i := range data {
		data[i] = 0xFF
	}
	return font.Glyph{Width: w, Height: h, Data: data}
}

func tableWith(t *testing.T, glyphs map[rune]font.Glyph) *font.Table {
	t.Helper()
	all := make([]font.Glyph, font.CompleteTypeIndex)
	for r, g := range glyphs {
		all[font.Resolve(r)] = g
	}
	tbl, err := font.NewTable(all)
	require.NoError(t, err)
	return tbl
}

func TestRasterizeBitOrderAndPadding(t *testing.T) {
	// 10 px wide: row 0 = 1000000001, row 1 = 0111111110.
	g := font.Glyph{Width: 10, Height: 2, Data: []byte{0x80, 0x7F, 0x7F, 0x80}}

	buf, err := Rasterize(g, 0xFFFF, 0x0841)
	require.NoError(t, err)
	require.Equal(t, 10, buf.Width)
	require.Equal(t, 2, buf.Height)
	require.Len(t, buf.Pix, 10*2*2)

	px := func(x, y int) uint16 {
		i := (y*buf.Width + x) * 2
		return uint16(buf.Pix[i])<<8 | uint16(buf.Pix[i+1])
	}
	require.Equal(t, uint16(0xFFFF), px(0, 0))
	require.Equal(t, uint16(0x0841), px(1, 0))
	require.Equal(t, uint16(0x0841), px(8, 0))
	require.Equal(t, uint16(0xFFFF), px(9, 0))
	require.Equal(t, uint16(0x0841), px(0, 1))
	require.Equal(t, uint16(0xFFFF), px(1, 1))
	require.Equal(t, uint16(0xFFFF), px(8, 1))
	require.Equal(t, uint16(0x0841), px(9, 1))
}

func TestRasterizeIsPure(t *testing.T) {
	g, err := font.Default().LookupRune('R')
	require.NoError(t, err)

	a, err := Rasterize(g, 0xFFFF, 0)
	require.NoError(t, err)
	b, err := Rasterize(g, 0xFFFF, 0)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRasterizeAbsentGlyph(t *testing.T) {
	_, err := Rasterize(font.Glyph{Width: 8, Height: 8}, 0xFFFF, 0)
	require.ErrorIs(t, err, ErrEmptyGlyph)
}

func TestFillUsesSixteenBandsOneAtATime(t *testing.T) {
	p := &recordingPanel{w: 320, h: 240}
	b := &Blitter{Panel: p, Timeout: time.Second}

	require.NoError(t, b.Fill(context.Background(), 0xFFFF))

	rects := p.drawn()
	require.Len(t, rects, 16)
	for i, r := range rects {
		require.Equal(t, image.Rect(0, i*15, 320, (i+1)*15), r)
	}
	require.False(t, p.overlap.Load())
}

func TestBlitIssuesOneRowPerSegment(t *testing.T) {
	p := &recordingPanel{w: 320, h: 240}
	b := &Blitter{Panel: p}

	require.NoError(t, b.Blit(context.Background(), image.Pt(30, 40), Solid(7, 13, 0xFFFF)))

	rects := p.drawn()
	require.Len(t, rects, 13)
	for i, r := range rects {
		require.Equal(t, image.Rect(30, 40+i, 37, 41+i), r)
	}
	require.False(t, p.overlap.Load())
}

func TestBlitTimesOutWithoutCompletion(t *testing.T) {
	p := &recordingPanel{w: 320, h: 240, noComplete: true}
	b := &Blitter{Panel: p, Timeout: 20 * time.Millisecond}

	err := b.Blit(context.Background(), image.Pt(0, 0), Solid(2, 2, 0))
	require.ErrorIs(t, err, ErrTransferTimeout)
	require.Len(t, p.drawn(), 1)
}

func TestBlitPropagatesPanelError(t *testing.T) {
	p := &recordingPanel{w: 320, h: 240, failAfter: 3}
	b := &Blitter{Panel: p}

	err := b.Fill(context.Background(), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "spi bus error")
	require.Len(t, p.drawn(), 3)
}

func TestDrawStringWrapsWhenCursorReachesMargin(t *testing.T) {
	p := &recordingPanel{w: 100, h: 100}
	tbl := tableWith(t, map[rune]font.Glyph{'A': block(9, 4)})
	e := NewEngine(p, tbl, Style{Foreground: 0xFFFF, GapX: 1, GapY: 5, Margin: 20}, time.Second)

	// 9px glyph + 1px gap from x=10: the seventh glyph puts the cursor at
	// exactly 80 = width-margin, so the eighth starts the next line.
	res, err := e.DrawString(context.Background(), "AAAAAAAA", image.Pt(10, 10))
	require.NoError(t, err)
	require.Equal(t, 8, res.Glyphs)

	rects := p.drawn()
	require.Len(t, rects, 8*4)
	require.Equal(t, image.Rect(70, 10, 79, 11), rects[6*4])
	require.Equal(t, image.Rect(20, 19, 29, 20), rects[7*4])
	require.Equal(t, image.Pt(30, 19), res.End)
}

func TestDrawStringSkipsMissingGlyphsWithoutAdvancing(t *testing.T) {
	p := &recordingPanel{w: 320, h: 240}
	tbl := tableWith(t, map[rune]font.Glyph{'A': block(5, 3)})
	e := NewEngine(p, tbl, DefaultStyle(), time.Second)

	// 'B' is absent, '가' is past the end of the table.
	res, err := e.DrawString(context.Background(), "AB가A", image.Pt(10, 10))
	require.NoError(t, err)
	require.Equal(t, 2, res.Glyphs)
	require.Equal(t, 2, res.Skipped)

	rects := p.drawn()
	require.Len(t, rects, 6)
	require.Equal(t, image.Rect(16, 10, 21, 11), rects[3])
}

func TestDrawStringClipsBelowPanel(t *testing.T) {
	p := &recordingPanel{w: 320, h: 240}
	tbl := tableWith(t, map[rune]font.Glyph{'A': block(5, 13)})
	e := NewEngine(p, tbl, DefaultStyle(), time.Second)

	res, err := e.DrawString(context.Background(), "AA", image.Pt(10, 230))
	require.NoError(t, err)
	require.Zero(t, res.Glyphs)
	require.Equal(t, 2, res.Clipped)
	require.Empty(t, p.drawn())
}

func TestDrawStringIsIdempotent(t *testing.T) {
	draw := func() *panel.Memory {
		m := panel.NewMemory(320, 240)
		e := NewEngine(m, font.Default(), DefaultStyle(), time.Second)
		_, err := e.DrawString(context.Background(), "apple: an apple a day", image.Pt(10, 60))
		require.NoError(t, err)
		return m
	}
	a, b := draw(), draw()
	require.Equal(t, a.Snapshot(), b.Snapshot())

	lit := 0
	for y := 60; y < 73; y++ {
		for x := 10; x < 17; x++ {
			if a.Pixel(x, y) == 0xFFFF {
				lit++
			}
		}
	}
	require.Positive(t, lit)
}

func TestGlyphBackgroundFollowsLastFill(t *testing.T) {
	m := panel.NewMemory(320, 240)
	tbl := tableWith(t, map[rune]font.Glyph{'A': {Width: 8, Height: 1, Data: []byte{0x0F}}})
	e := NewEngine(m, tbl, DefaultStyle(), time.Second)

	require.NoError(t, e.FillBackground(context.Background(), 0x001F))
	require.Equal(t, uint16(0x001F), e.Background())

	_, err := e.DrawString(context.Background(), "A", image.Pt(0, 0))
	require.NoError(t, err)
	require.Equal(t, uint16(0x001F), m.Pixel(0, 0))
	require.Equal(t, uint16(0xFFFF), m.Pixel(7, 0))
	require.Equal(t, uint16(0x001F), m.Pixel(100, 100))
}

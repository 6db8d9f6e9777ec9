// Package render turns strings into glyph bitmaps on the panel.
package render

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rook-computer/wordclock/internal/font"
	"github.com/rook-computer/wordclock/internal/logging"
	"github.com/rook-computer/wordclock/internal/panel"
	"github.com/rook-computer/wordclock/internal/render/layout"
	"github.com/rook-computer/wordclock/internal/textcodec"
)

// Style is the fixed text style of the device.
type Style struct {
	Foreground uint16
	Background uint16
	// GapX is added after every glyph, GapY between wrapped lines.
	GapX int
	GapY int
	// Margin is the horizontal margin: wrapping starts once the cursor
	// reaches width-Margin and continues at x=Margin.
	Margin int
}

func DefaultStyle() Style {
	return Style{Foreground: 0xFFFF, Background: 0x0000, GapX: 1, GapY: 5, Margin: 20}
}

// Result describes one DrawString call.
type Result struct {
	Glyphs  int // glyphs blitted
	Skipped int // code points with no usable glyph
	Clipped int // glyphs that fell outside the panel
	End     image.Point
}

// Engine lays strings out on a panel. It is owned by a single goroutine.
type Engine struct {
	Logger logging.Logger

	blit       Blitter
	table      *font.Table
	style      Style
	background uint16
}

func NewEngine(p panel.Panel, table *font.Table, style Style, transferTimeout time.Duration) *Engine {
	return &Engine{
		Logger:     logging.NoopLogger{},
		blit:       Blitter{Panel: p, Timeout: transferTimeout},
		table:      table,
		style:      style,
		background: style.Background,
	}
}

// Background is the colour of the last full fill; glyph pixels that are
// not set use it.
func (e *Engine) Background() uint16 { return e.background }

// FillBackground paints the panel with c and records it as the background.
func (e *Engine) FillBackground(ctx context.Context, c uint16) error {
	if e.blit.Panel == nil {
		return nil
	}
	e.background = c
	return e.blit.Fill(ctx, c)
}

// ResetBackground repaints the panel with the current background.
func (e *Engine) ResetBackground(ctx context.Context) error {
	return e.FillBackground(ctx, e.background)
}

// DrawString draws s with its first glyph at origin. Glyphs are placed left
// to right; after each glyph the cursor advances by its width plus GapX and
// wraps to the next line once it reaches the right margin. There is no word
// wrapping and no newline handling. Code points without a glyph are logged
// and take no space. The returned error is a panel failure.
func (e *Engine) DrawString(ctx context.Context, s string, origin image.Point) (Result, error) {
	res := Result{End: origin}
	if e.blit.Panel == nil || e.table == nil {
		return res, nil
	}
	w, h := e.blit.Panel.Size()
	screen := image.Rect(0, 0, w, h)
	text := layout.InsetX(screen, e.style.Margin)

	cursor := origin
	c := textcodec.NewCursor(s)
	for {
		r, _, ok := c.Next()
		if !ok {
			break
		}
		g, err := e.table.LookupRune(r)
		if err != nil {
			res.Skipped++
			if errors.Is(err, font.ErrGlyphOutOfRange) {
				e.Logger.Errorf("render", "U+%04X rejected: %v", r, err)
			} else {
				e.Logger.Errorf("render", "U+%04X not drawn: %v", r, err)
			}
			continue
		}
		buf, err := Rasterize(g, e.style.Foreground, e.background)
		if err != nil {
			res.Skipped++
			e.Logger.Errorf("render", "U+%04X rasterize: %v", r, err)
			continue
		}

		if layout.Contains(screen, layout.AnchorAt(cursor, buf.Width, buf.Height)) {
			if err := e.blit.Blit(ctx, cursor, buf); err != nil {
				return res, err
			}
			res.Glyphs++
		} else {
			res.Clipped++
		}

		cursor.X += buf.Width + e.style.GapX
		if cursor.X >= text.Max.X {
			cursor.X = text.Min.X
			cursor.Y += buf.Height + e.style.GapY
		}
	}
	if res.Clipped > 0 {
		e.Logger.Infof("render", "%d glyphs outside the panel for %q", res.Clipped, s)
	}
	res.End = cursor
	return res, nil
}

package font

import (
	"errors"
	"fmt"
)

var (
	ErrGlyphOutOfRange = errors.New("glyph index out of range")
	ErrGlyphAbsent     = errors.New("glyph has no bitmap")
)

// Glyph is a 1-bpp bitmap: rows are packed MSB-first and padded to a whole
// byte, so each row takes Stride(Width) bytes. Nil Data marks an absent glyph.
type Glyph struct {
	Width  int
	Height int
	Data   []byte
}

// Stride returns the bytes per packed row for a glyph of width w.
func Stride(w int) int { return (w + 7) / 8 }

// Set reports whether pixel (x, y) is foreground.
func (g Glyph) Set(x, y int) bool {
	i := y*Stride(g.Width) + x/8
	if i < 0 || i >= len(g.Data) {
		return false
	}
	return g.Data[i]&(0x80>>uint(x%8)) != 0
}

func (g Glyph) validate() error {
	if g.Data == nil {
		return nil
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("glyph size %dx%d", g.Width, g.Height)
	}
	if want := Stride(g.Width) * g.Height; len(g.Data) != want {
		return fmt.Errorf("glyph %dx%d: data is %d bytes, want %d", g.Width, g.Height, len(g.Data), want)
	}
	return nil
}

// Table is the read-only glyph table indexed by Resolve.
type Table struct {
	glyphs []Glyph
}

func NewTable(glyphs []Glyph) (*Table, error) {
	for i, g := range glyphs {
		if err := g.validate(); err != nil {
			return nil, fmt.Errorf("glyph %d: %w", i, err)
		}
	}
	return &Table{glyphs: glyphs}, nil
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.glyphs)
}

// Lookup returns the glyph at index. Indices outside the table yield
// ErrGlyphOutOfRange; entries without a bitmap yield ErrGlyphAbsent.
func (t *Table) Lookup(index int) (Glyph, error) {
	if index < 0 || index >= t.Len() {
		return Glyph{}, fmt.Errorf("%w: %d not in [0,%d)", ErrGlyphOutOfRange, index, t.Len())
	}
	g := t.glyphs[index]
	if g.Data == nil {
		return Glyph{}, fmt.Errorf("%w: index %d", ErrGlyphAbsent, index)
	}
	return g, nil
}

// LookupRune resolves cp and looks it up.
func (t *Table) LookupRune(cp rune) (Glyph, error) {
	return t.Lookup(Resolve(cp))
}

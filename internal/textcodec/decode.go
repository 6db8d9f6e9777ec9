// Package textcodec turns UTF-8 byte strings into code points for the glyph
// pipeline.
package textcodec

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// decode returns the code point starting at s[0] and the number of bytes it
// occupies (1 to 4). Malformed input yields utf8.RuneError with size 1 so the
// caller always makes progress. An empty string yields size 0.
func decode(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}

// Cursor walks a string one code point at a time. The zero offset restarts
// the sequence; Offset can be saved and restored with Seek.
type Cursor struct {
	s   string
	off int
}

func NewCursor(s string) *Cursor { return &Cursor{s: s} }

// Next returns the next code point and its byte length. ok is false once the
// offset reaches the end of the string.
func (c *Cursor) Next() (r rune, size int, ok bool) {
	if c.off >= len(c.s) {
		return 0, 0, false
	}
	r, size = decode(c.s[c.off:])
	c.off += size
	return r, size, true
}

func (c *Cursor) Offset() int { return c.off }

// Seek moves the cursor to a byte offset previously returned by Offset.
func (c *Cursor) Seek(off int) {
	switch {
	case off < 0:
		c.off = 0
	case off > len(c.s):
		c.off = len(c.s)
	default:
		c.off = off
	}
}

// Normalize composes decomposed sequences (for example conjoining jamo) into
// their precomposed form so they hit the syllable range of the glyph table.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Truncate shortens s to at most maxBytes without splitting a code point.
// The second result reports whether anything was dropped.
func Truncate(s string, maxBytes int) (string, bool) {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if len(s) <= maxBytes {
		return s, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}

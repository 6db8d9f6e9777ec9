package render

import (
	"errors"

	"github.com/rook-computer/wordclock/internal/font"
)

// BytesPerPixel for RGB565.
const BytesPerPixel = 2

var ErrEmptyGlyph = errors.New("glyph has no pixels")

// PixelBuffer is a big-endian RGB565 bitmap.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Row returns the bytes of row y.
func (b PixelBuffer) Row(y int) []byte {
	stride := b.Width * BytesPerPixel
	return b.Pix[y*stride : (y+1)*stride]
}

// Rasterize expands a 1-bpp glyph into RGB565: set bits take fg, clear bits
// take bg. Bits past the glyph width in a row's last byte are ignored.
func Rasterize(g font.Glyph, fg, bg uint16) (PixelBuffer, error) {
	if g.Data == nil || g.Width <= 0 || g.Height <= 0 {
		return PixelBuffer{}, ErrEmptyGlyph
	}
	stride := font.Stride(g.Width)
	if len(g.Data) < stride*g.Height {
		return PixelBuffer{}, ErrEmptyGlyph
	}

	buf := PixelBuffer{Width: g.Width, Height: g.Height, Pix: make([]byte, g.Width*g.Height*BytesPerPixel)}
	i := 0
	for y := 0; y < g.Height; y++ {
		row := g.Data[y*stride : (y+1)*stride]
		width := 0
		for _, b := range row {
			for bit := 7; bit >= 0 && width < g.Width; bit-- {
				c := bg
				if b&(1<<uint(bit)) != 0 {
					c = fg
				}
				buf.Pix[i] = byte(c >> 8)
				buf.Pix[i+1] = byte(c)
				i += BytesPerPixel
				width++
			}
		}
	}
	return buf, nil
}

// Solid returns a width×height buffer of one colour.
func Solid(width, height int, c uint16) PixelBuffer {
	buf := PixelBuffer{Width: width, Height: height, Pix: make([]byte, width*height*BytesPerPixel)}
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i < len(buf.Pix); i += BytesPerPixel {
		buf.Pix[i] = hi
		buf.Pix[i+1] = lo
	}
	return buf
}

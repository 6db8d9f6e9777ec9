package font

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Coverage of a built table, in resolver index order.
const (
	ASCIIGlyphs     = ConsonantVowelIndex
	JamoGlyphs      = CompleteTypeIndex - ConsonantVowelIndex
	AllSyllables    = 11172
	DefaultSyllable = 2350 // KS X 1001 common syllable count
)

// BuildOptions controls Build.
type BuildOptions struct {
	// Syllables is how many precomposed syllables after CompleteTypeBase to
	// include. Zero builds ASCII and jamo only.
	Syllables int
	// Threshold is the minimum mask alpha (0-255) counted as foreground.
	Threshold uint8
}

// Build rasterizes face into a glyph table. Runes the face cannot render
// are stored as absent glyphs.
func Build(face xfont.Face, opts BuildOptions) (*Table, error) {
	if face == nil {
		return nil, fmt.Errorf("build font: nil face")
	}
	if opts.Syllables < 0 || opts.Syllables > AllSyllables {
		return nil, fmt.Errorf("build font: syllables %d not in [0,%d]", opts.Syllables, AllSyllables)
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = 0x80
	}

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	if height <= 0 {
		return nil, fmt.Errorf("build font: face height %d", height)
	}

	count := CompleteTypeIndex + opts.Syllables
	glyphs := make([]Glyph, count)
	for i := 0; i < count; i++ {
		glyphs[i] = rasterizeGlyph(face, Codepoint(i), ascent, height, threshold)
	}
	return NewTable(glyphs)
}

func rasterizeGlyph(face xfont.Face, r rune, ascent, height int, threshold uint8) Glyph {
	dot := fixed.P(0, ascent)
	dr, mask, maskp, advance, ok := face.Glyph(dot, r)
	if !ok {
		return Glyph{}
	}
	width := advance.Ceil()
	if width <= 0 {
		width = dr.Max.X
	}
	if width <= 0 {
		return Glyph{}
	}

	cell := image.NewAlpha(image.Rect(0, 0, width, height))
	if mask != nil {
		draw.DrawMask(cell, dr, image.Opaque, image.Point{}, mask, maskp, draw.Over)
	}

	stride := Stride(width)
	data := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if cell.AlphaAt(x, y).A >= threshold {
				data[y*stride+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	return Glyph{Width: width, Height: height, Data: data}
}

// Default builds the fallback table from the 7x13 basic face. It covers
// printable ASCII; every other entry is absent.
func Default() *Table {
	t, err := Build(basicfont.Face7x13, BuildOptions{})
	if err != nil {
		panic(err)
	}
	return t
}

// ParseFace loads a scalable face from TTF/OTF bytes. opentype is tried
// first; freetype's truetype parser is the fallback for fonts sfnt rejects.
func ParseFace(data []byte, size float64) (xfont.Face, error) {
	if size <= 0 {
		size = 16
	}
	fnt, err := opentype.Parse(data)
	if err == nil {
		face, ferr := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: xfont.HintingFull})
		if ferr == nil {
			return face, nil
		}
		err = ferr
	}
	tt, terr := truetype.Parse(data)
	if terr != nil {
		return nil, fmt.Errorf("parse font: opentype: %v; truetype: %w", err, terr)
	}
	return truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: xfont.HintingFull}), nil
}

// Command mkfont rasterizes a TTF/OTF face into a glyph table asset.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rook-computer/wordclock/internal/font"
)

func main() {
	fontPath := flag.String("font", "", "TTF or OTF face to rasterize (required)")
	size := flag.Float64("size", 16, "face size in pixels")
	out := flag.String("out", "glyphs.bin", "output asset path")
	syllables := flag.Int("syllables", font.DefaultSyllable, fmt.Sprintf("precomposed syllables from U+AC00 to include (0..%d)", font.AllSyllables))
	threshold := flag.Uint("threshold", 128, "minimum coverage (0-255) for a lit pixel")
	flag.Parse()

	if err := run(*fontPath, *size, *out, *syllables, *threshold); err != nil {
		fmt.Fprintln(os.Stderr, "mkfont:", err)
		os.Exit(1)
	}
}

func run(fontPath string, size float64, out string, syllables int, threshold uint) error {
	if fontPath == "" {
		return fmt.Errorf("-font is required")
	}
	if threshold > 255 {
		return fmt.Errorf("threshold %d not in [0,255]", threshold)
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return err
	}
	face, err := font.ParseFace(data, size)
	if err != nil {
		return err
	}
	defer face.Close()

	table, err := font.Build(face, font.BuildOptions{Syllables: syllables, Threshold: uint8(threshold)})
	if err != nil {
		return err
	}
	if err := font.Save(out, table); err != nil {
		return err
	}

	present := 0
	for i := 0; i < table.Len(); i++ {
		if _, err := table.Lookup(i); err == nil {
			present++
		}
	}
	fmt.Printf("wrote %s: %d entries, %d with pixels\n", out, table.Len(), present)
	return nil
}

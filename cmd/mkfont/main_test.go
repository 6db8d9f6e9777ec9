package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/wordclock/internal/font"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRunWritesLoadableTable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "goregular.ttf")
	require.NoError(t, os.WriteFile(src, goregular.TTF, 0o644))
	_, err := truetype.Parse(goregular.TTF)
	require.NoError(t, err)

	out := filepath.Join(dir, "glyphs.bin")
	require.NoError(t, run(src, 14, out, 0, 128))

	table, err := font.Load(out)
	require.NoError(t, err)
	g, err := table.LookupRune('A')
	require.NoError(t, err)
	require.Positive(t, g.Width)
}

func TestRunRejectsBadInput(t *testing.T) {
	require.Error(t, run("", 16, "x", 0, 128))
	require.Error(t, run("missing.ttf", 16, "x", 0, 128))
	require.Error(t, run("missing.ttf", 16, "x", 0, 300))
}

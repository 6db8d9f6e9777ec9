package font

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveAnchors(t *testing.T) {
	require.Equal(t, 0, Resolve(' '))
	require.Equal(t, 33, Resolve('A'))
	require.Equal(t, 94, Resolve('~'))
	require.Equal(t, 95, Resolve('ㄱ'))
	require.Equal(t, 188, Resolve(0x318E))
	require.Equal(t, 189, Resolve('가'))
	require.Equal(t, 190, Resolve('각'))
}

func TestResolveInjectiveWithinRanges(t *testing.T) {
	ranges := []struct {
		name     string
		low, top rune
	}{
		{name: "ascii", low: GapOffset, top: asciiLimit - 1},
		{name: "jamo", low: ConsonantVowelBase, top: 0x318E},
		{name: "syllables", low: CompleteTypeBase, top: CompleteTypeBase + AllSyllables - 1},
	}
	for _, rg := range ranges {
		t.Run(rg.name, func(t *testing.T) {
			seen := make(map[int]rune)
			for cp := rg.low; cp <= rg.top; cp++ {
				idx := Resolve(cp)
				require.Equal(t, idx, Resolve(cp), "deterministic")
				prev, dup := seen[idx]
				require.False(t, dup, "U+%04X and U+%04X share index %d", prev, cp, idx)
				seen[idx] = cp
			}
		})
	}
}

func TestCodepointInvertsResolve(t *testing.T) {
	for i := 0; i < CompleteTypeIndex+50; i++ {
		require.Equal(t, i, Resolve(Codepoint(i)), "index %d", i)
	}
}

func TestLookupRejectsOutOfRange(t *testing.T) {
	tbl, err := NewTable([]Glyph{{Width: 1, Height: 1, Data: []byte{0x80}}, {}})
	require.NoError(t, err)

	_, err = tbl.Lookup(-1)
	require.ErrorIs(t, err, ErrGlyphOutOfRange)
	_, err = tbl.Lookup(2)
	require.ErrorIs(t, err, ErrGlyphOutOfRange)
	_, err = tbl.Lookup(1)
	require.ErrorIs(t, err, ErrGlyphAbsent)

	g, err := tbl.Lookup(0)
	require.NoError(t, err)
	require.True(t, g.Set(0, 0))
}

func TestNewTableValidatesDataLength(t *testing.T) {
	_, err := NewTable([]Glyph{{Width: 9, Height: 2, Data: make([]byte, 3)}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "want 4")
}

func TestDefaultCoversASCIIOnly(t *testing.T) {
	tbl := Default()
	require.Equal(t, CompleteTypeIndex, tbl.Len())

	g, err := tbl.LookupRune('A')
	require.NoError(t, err)
	require.Equal(t, 7, g.Width)
	require.Equal(t, 13, g.Height)

	lit := 0
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Set(x, y) {
				lit++
			}
		}
	}
	require.Positive(t, lit)

	space, err := tbl.LookupRune(' ')
	require.NoError(t, err)
	require.Equal(t, 7, space.Width)

	_, err = tbl.LookupRune('ㄱ')
	require.True(t, errors.Is(err, ErrGlyphAbsent))
}

func TestAssetEncodeDecode(t *testing.T) {
	src := Default()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src))

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, src.Len(), got.Len())

	want, _ := src.LookupRune('W')
	have, err := got.LookupRune('W')
	require.NoError(t, err)
	require.Equal(t, want, have)

	_, err = got.LookupRune('가')
	require.ErrorIs(t, err, ErrGlyphOutOfRange)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("NOPE\x01\x00\x00\x00\x00")))
	require.ErrorIs(t, err, ErrBadAsset)
}

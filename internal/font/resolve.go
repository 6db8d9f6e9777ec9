// Package font holds the bitmap glyph table and maps code points onto it.
package font

// The glyph table is compacted: printable ASCII first, then the Hangul
// compatibility jamo block, then precomposed syllables.
const (
	// GapOffset is the first storable ASCII code point (space).
	GapOffset = 32

	// ConsonantVowelBase is the first compatibility jamo (ㄱ) and
	// ConsonantVowelIndex its slot in the table.
	ConsonantVowelBase  = 0x3131
	ConsonantVowelIndex = 95

	// CompleteTypeBase is the first precomposed syllable (가) and
	// CompleteTypeIndex its slot in the table.
	CompleteTypeBase  = 0xAC00
	CompleteTypeIndex = 189

	ConsonantVowelCalibration = ConsonantVowelBase - ConsonantVowelIndex
	CompleteTypeCalibration   = CompleteTypeBase - CompleteTypeIndex

	asciiLimit = 127
)

// Resolve maps a code point onto a table index. It does not validate the
// result; Table.Lookup rejects indices outside the table.
func Resolve(cp rune) int {
	switch {
	case cp < asciiLimit:
		return int(cp) - GapOffset
	case cp >= CompleteTypeBase:
		return int(cp) - CompleteTypeCalibration
	default:
		return int(cp) - ConsonantVowelCalibration
	}
}

// Codepoint is the inverse of Resolve for indices laid out by Build.
func Codepoint(index int) rune {
	switch {
	case index < ConsonantVowelIndex:
		return rune(index + GapOffset)
	case index < CompleteTypeIndex:
		return rune(index + ConsonantVowelCalibration)
	default:
		return rune(index + CompleteTypeCalibration)
	}
}

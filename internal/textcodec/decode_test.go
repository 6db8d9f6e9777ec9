package textcodec

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestDecodeWidths(t *testing.T) {
	tests := []struct {
		in   string
		want rune
		size int
	}{
		{in: "A", want: 'A', size: 1},
		{in: "é", want: 'é', size: 2},
		{in: "가", want: 0xAC00, size: 3},
		{in: "ㄱ", want: 0x3131, size: 3},
		{in: "😀", want: 0x1F600, size: 4},
	}
	for _, tc := range tests {
		r, n := decode(tc.in)
		require.Equal(t, tc.want, r, tc.in)
		require.Equal(t, tc.size, n, tc.in)
	}
}

func TestDecodeMalformedAdvancesOneByte(t *testing.T) {
	r, n := decode("\xffa")
	require.Equal(t, utf8.RuneError, r)
	require.Equal(t, 1, n)

	r, n = decode("")
	require.Equal(t, utf8.RuneError, r)
	require.Equal(t, 0, n)
}

func TestCursorConsumedBytesSumToLength(t *testing.T) {
	inputs := []string{"", "hello", "사과: 나는 사과를 먹었다.", "mixed ㄱㄴ abc 가나다 😀", "\xffbad\xfe"}
	for _, in := range inputs {
		c := NewCursor(in)
		total := 0
		for {
			_, n, ok := c.Next()
			if !ok {
				break
			}
			require.Positive(t, n)
			total += n
		}
		require.Equal(t, len(in), total, in)
	}
}

func TestCursorRestartable(t *testing.T) {
	c := NewCursor("ab가")
	_, _, _ = c.Next()
	mark := c.Offset()
	r1, _, _ := c.Next()
	r2, _, _ := c.Next()

	c.Seek(mark)
	again1, _, _ := c.Next()
	again2, _, _ := c.Next()
	require.Equal(t, r1, again1)
	require.Equal(t, r2, again2)

	c.Seek(0)
	first, _, ok := c.Next()
	require.True(t, ok)
	require.Equal(t, 'a', first)
}

func TestNormalizeComposesJamo(t *testing.T) {
	decomposed := "\u1100\u1161" // conjoining ㄱ + ㅏ
	require.Equal(t, "가", Normalize(decomposed))
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	s := "가나다" // 9 bytes

	out, cut := Truncate(s, 4)
	require.True(t, cut)
	require.Equal(t, "가", out)

	out, cut = Truncate(s, 9)
	require.False(t, cut)
	require.Equal(t, s, out)

	out, cut = Truncate("abc", 0)
	require.True(t, cut)
	require.Equal(t, "", out)
}

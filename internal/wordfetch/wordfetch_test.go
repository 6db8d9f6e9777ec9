package wordfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSplitsAtFirstColon(t *testing.T) {
	e, err := Parse("ratio: the ratio is 3:2\r\n")
	require.NoError(t, err)
	require.Equal(t, "ratio", e.Word)
	require.Equal(t, "the ratio is 3:2", e.Sentence)
}

func TestParseSkipsOnlyLeadingSpaces(t *testing.T) {
	e, err := Parse("사과:   사과 하나\n")
	require.NoError(t, err)
	require.Equal(t, "사과", e.Word)
	require.Equal(t, "사과 하나", e.Sentence)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse("no separator here")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseWordTooLong(t *testing.T) {
	_, err := Parse(strings.Repeat("w", MaxWord) + ": s")
	require.ErrorIs(t, err, ErrWordTooLong)

	e, err := Parse(strings.Repeat("w", MaxWord-1) + ": s")
	require.NoError(t, err)
	require.Len(t, e.Word, MaxWord-1)
}

func TestParseTruncatesSentence(t *testing.T) {
	e, err := Parse("w: " + strings.Repeat("가", 100))
	require.NoError(t, err)
	require.LessOrEqual(t, len(e.Sentence), MaxSentence)
	require.Equal(t, strings.Repeat("가", 85), e.Sentence)
}

func TestParseComposesJamo(t *testing.T) {
	e, err := Parse("\u1100\u1161: x")
	require.NoError(t, err)
	require.Equal(t, "\uac00", e.Word)
}

func TestFetchReadsEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/word" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("apple: An apple a day keeps the doctor away.\r\n"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/word", time.Second)
	e, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, Entry{Word: "apple", Sentence: "An apple a day keeps the doctor away."}, e)
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestFetchReadsAtMostMaxBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", MaxBody) + ": late"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Fetch(context.Background())
	require.ErrorIs(t, err, ErrMalformed)
}

func TestFetchTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewClient(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
}

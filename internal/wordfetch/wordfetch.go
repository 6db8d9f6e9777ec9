// Package wordfetch asks the word service for the next vocabulary entry.
package wordfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rook-computer/wordclock/internal/textcodec"
)

const (
	// MaxBody is how much of a response is read; the rest is ignored.
	MaxBody = 2048
	// MaxWord is the exclusive upper bound on the word in bytes.
	MaxWord = 128
	// MaxSentence is the sentence length kept, in bytes.
	MaxSentence = 255

	defaultTimeout = 5 * time.Second
	userAgent      = "wordclock/1.0"
)

var (
	ErrMalformed   = errors.New("response has no word separator")
	ErrWordTooLong = errors.New("word too long")
)

// Entry is one word and its example sentence.
type Entry struct {
	Word     string
	Sentence string
}

// Client fetches entries from a `word: sentence` text endpoint.
type Client struct {
	URL     string
	Timeout time.Duration
	HTTP    *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{URL: url, Timeout: timeout, HTTP: &http.Client{Timeout: timeout}}
}

// Fetch performs one request. The connection is not reused.
func (c *Client) Fetch(ctx context.Context) (Entry, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("word request: %w", err)
	}
	req.Close = true
	req.Header.Set("User-Agent", userAgent)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("word request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Entry{}, fmt.Errorf("word service: %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody))
	if err != nil {
		return Entry{}, fmt.Errorf("read word body: %w", err)
	}
	return Parse(string(body))
}

// Parse splits a `word: sentence` body at the first colon. Spaces after the
// colon and the trailing line break are dropped; the sentence is cut to
// MaxSentence bytes. Both halves are NFC-normalized.
func Parse(body string) (Entry, error) {
	word, sentence, ok := strings.Cut(body, ":")
	if !ok {
		return Entry{}, ErrMalformed
	}
	if len(word) >= MaxWord {
		return Entry{}, fmt.Errorf("%w: %d bytes", ErrWordTooLong, len(word))
	}
	sentence = strings.TrimLeft(sentence, " ")
	sentence = strings.TrimRight(sentence, "\r\n")
	sentence = textcodec.Normalize(sentence)
	sentence, _ = textcodec.Truncate(sentence, MaxSentence)

	return Entry{Word: textcodec.Normalize(word), Sentence: sentence}, nil
}

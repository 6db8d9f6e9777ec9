package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed words.yaml
var wordsYAML []byte

//go:embed web
var webFS embed.FS

// WebUI is an embedded filesystem rooted at internal/assets/web.
var WebUI fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub
}

// WordEntry is one item of the simulator's word list.
type WordEntry struct {
	Word     string `yaml:"word"`
	Sentence string `yaml:"sentence"`
}

// Line is the word service response body for e.
func (e WordEntry) Line() string {
	return e.Word + ": " + e.Sentence
}

type wordList struct {
	Words []WordEntry `yaml:"words"`
}

// Words returns the embedded word list.
func Words() ([]WordEntry, error) {
	return ParseWords(wordsYAML)
}

// ParseWords decodes a word list document. Entries need a word without ':'.
func ParseWords(content []byte) ([]WordEntry, error) {
	var list wordList
	if err := yaml.Unmarshal(content, &list); err != nil {
		return nil, fmt.Errorf("parse word list: %w", err)
	}
	for i, e := range list.Words {
		if strings.TrimSpace(e.Word) == "" {
			return nil, fmt.Errorf("word list entry %d: empty word", i)
		}
		if strings.Contains(e.Word, ":") {
			return nil, fmt.Errorf("word list entry %d: word %q contains ':'", i, e.Word)
		}
	}
	if len(list.Words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return list.Words, nil
}

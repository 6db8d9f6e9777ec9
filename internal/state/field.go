package state

import (
	"fmt"
	"image"

	"github.com/rook-computer/wordclock/internal/textcodec"
)

// Field names one of the three text areas on the panel.
type Field int

const (
	Word Field = iota
	Sentence
	Time

	fieldCount
)

// Fields lists every field in draw order.
var Fields = [fieldCount]Field{Word, Sentence, Time}

func (f Field) String() string {
	switch f {
	case Word:
		return "word"
	case Sentence:
		return "sentence"
	case Time:
		return "time"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Capacity is the maximum text length of f in bytes.
func (f Field) Capacity() int {
	switch f {
	case Word:
		return WordCapacity
	case Sentence:
		return SentenceCapacity
	case Time:
		return TimeCapacity
	default:
		return 0
	}
}

const (
	WordCapacity     = 99
	SentenceCapacity = 255
	TimeCapacity     = 19
)

// Bound truncates text to the capacity of f at a rune boundary and reports
// whether anything was cut.
func Bound(f Field, text string) (string, bool) {
	return textcodec.Truncate(text, f.Capacity())
}

// UpdateKind tells the refresh activity what a queued Update asks for.
type UpdateKind int

const (
	// SetField replaces one field's text and origin and marks it dirty.
	SetField UpdateKind = iota
	// ClearScreen repaints the whole panel with the background before any
	// field queued after it is drawn.
	ClearScreen
)

// Update is the message producers send to the refresh activity.
type Update struct {
	Kind   UpdateKind
	Field  Field
	Text   string
	Origin image.Point
}

func FieldUpdate(f Field, text string, origin image.Point) Update {
	return Update{Kind: SetField, Field: f, Text: text, Origin: origin}
}

func ClearUpdate() Update {
	return Update{Kind: ClearScreen}
}

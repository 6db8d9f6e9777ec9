package state

import "image"

// ScreenField is one text area as last requested by a producer.
type ScreenField struct {
	Text   string
	Origin image.Point
	Dirty  bool
}

// Record is the screen state owned by the refresh activity. It is not safe
// for concurrent use; producers reach it only through a Queue.
type Record struct {
	fields [fieldCount]ScreenField
	clear  bool
}

// Apply folds one update into the record. Text is stored before the dirty
// flag is raised. Truncation is reported through the returned bool.
func (r *Record) Apply(u Update) (truncated bool) {
	switch u.Kind {
	case ClearScreen:
		r.clear = true
		// Everything drawn before the clear is gone from the panel.
		for i := range r.fields {
			if r.fields[i].Text != "" {
				r.fields[i].Dirty = true
			}
		}
	case SetField:
		if u.Field < 0 || u.Field >= fieldCount {
			return false
		}
		text, cut := Bound(u.Field, u.Text)
		f := &r.fields[u.Field]
		f.Text = text
		f.Origin = u.Origin
		f.Dirty = true
		truncated = cut
	}
	return truncated
}

// Field returns a copy of field f.
func (r *Record) Field(f Field) ScreenField {
	return r.fields[f]
}

// ClearPending reports whether a full repaint is owed.
func (r *Record) ClearPending() bool { return r.clear }

// ClearDone is called after the background fill succeeded.
func (r *Record) ClearDone() { r.clear = false }

// Dirty returns the dirty fields in draw order.
func (r *Record) Dirty() []Field {
	var out []Field
	for _, f := range Fields {
		if r.fields[f].Dirty {
			out = append(out, f)
		}
	}
	return out
}

// Drawn clears the dirty flag of f. Call it only after a complete draw.
func (r *Record) Drawn(f Field) {
	r.fields[f].Dirty = false
}

package state

import "context"

// Queue carries updates from the timer and main activities to the refresh
// activity, which is its only reader. Field updates wait for room; the time
// slot holds only the newest value so the timer never waits on a redraw.
type Queue struct {
	ch     chan Update
	latest chan Update
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{ch: make(chan Update, size), latest: make(chan Update, 1)}
}

// Send blocks while the queue is full.
func (q *Queue) Send(ctx context.Context, u Update) error {
	select {
	case q.ch <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Offer puts u in the latest-wins slot without blocking and reports whether
// an undrained value was replaced. It has a single writer.
func (q *Queue) Offer(u Update) (replaced bool) {
	for {
		select {
		case q.latest <- u:
			return replaced
		default:
		}
		select {
		case <-q.latest:
			replaced = true
		default:
		}
	}
}

// Drain moves every queued update into rec without blocking and returns how
// many were applied and how many had to be truncated. The latest-wins slot
// is applied last.
func (q *Queue) Drain(rec *Record) (applied, truncated int) {
	apply := func(u Update) {
		applied++
		if rec.Apply(u) {
			truncated++
		}
	}
	for drained := false; !drained; {
		select {
		case u := <-q.ch:
			apply(u)
		default:
			drained = true
		}
	}
	select {
	case u := <-q.latest:
		apply(u)
	default:
	}
	return applied, truncated
}

// Len is the number of updates waiting, the time slot included.
func (q *Queue) Len() int { return len(q.ch) + len(q.latest) }

// Package state holds the screen state record, the update messages that
// feed it, and the status snapshot served by the web API.
package state

import (
	"sync"
	"time"
)

type Mode int

const (
	Idle Mode = iota
	Active
)

func (m Mode) String() string {
	if m == Active {
		return "active"
	}
	return "idle"
}

type Counters struct {
	FetchOK      int64
	FetchFailed  int64
	AudioReplays int64
	Sleeps       int64
	Touches      int64
	Truncations  int64
}

// Status is a point-in-time view of the device.
type Status struct {
	Mode      Mode
	Remaining time.Duration
	Display   string
	Word      string
	Sentence  string
	Counters  Counters
}

type Store struct {
	mu     sync.RWMutex
	status Status
}

func NewStore() *Store {
	return &Store{status: Status{Mode: Idle}}
}

func (store *Store) Snapshot() Status {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.status
}

func (store *Store) SetMode(mode Mode) {
	store.mu.Lock()
	store.status.Mode = mode
	store.mu.Unlock()
}

func (store *Store) SetRemaining(remaining time.Duration, display string) {
	store.mu.Lock()
	store.status.Remaining = remaining
	store.status.Display = display
	store.mu.Unlock()
}

func (store *Store) SetEntry(word, sentence string) {
	store.mu.Lock()
	store.status.Word = word
	store.status.Sentence = sentence
	store.mu.Unlock()
}

// Count applies fn to the counters under the lock.
func (store *Store) Count(fn func(*Counters)) {
	store.mu.Lock()
	fn(&store.status.Counters)
	store.mu.Unlock()
}

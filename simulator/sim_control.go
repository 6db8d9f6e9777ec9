package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/wordclock/internal/assets"
)

// SimFaults makes the embedded word service misbehave.
type SimFaults struct {
	FetchFail   bool `json:"fetchFail"`
	Malformed   bool `json:"malformed"`
	WordTooLong bool `json:"wordTooLong"`
}

// SimControl is the simulator's word service plus its fault and touch
// injection endpoints.
type SimControl struct {
	words     []assets.WordEntry
	audioPath string
	next      atomic.Int64
	served    atomic.Int64

	touch atomic.Pointer[func()]

	faults struct {
		mu sync.RWMutex
		v  SimFaults
	}
}

func NewSimControl(words []assets.WordEntry, audioPath string) *SimControl {
	return &SimControl{words: words, audioPath: audioPath}
}

// SetTouch installs the touch callback used by /sim/touch.
func (c *SimControl) SetTouch(fn func()) {
	c.touch.Store(&fn)
}

func (c *SimControl) Touch() bool {
	fn := c.touch.Load()
	if fn == nil || *fn == nil {
		return false
	}
	(*fn)()
	return true
}

func (c *SimControl) Faults() SimFaults {
	c.faults.mu.RLock()
	defer c.faults.mu.RUnlock()
	return c.faults.v
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.faults.mu.Lock()
	c.faults.v = v
	c.faults.mu.Unlock()
}

// Reset clears faults and restarts the word list.
func (c *SimControl) Reset() {
	c.SetFaults(SimFaults{})
	c.next.Store(0)
}

// Served is how many words were handed out.
func (c *SimControl) Served() int64 { return c.served.Load() }

// NextLine returns the next response body of the word service.
func (c *SimControl) NextLine() string {
	faults := c.Faults()
	switch {
	case faults.Malformed:
		return "no separator in this line"
	case faults.WordTooLong:
		return strings.Repeat("w", 200) + ": too long"
	}
	if len(c.words) == 0 {
		return "empty: the word list is empty"
	}
	i := c.next.Add(1) - 1
	c.served.Add(1)
	return c.words[int(i)%len(c.words)].Line()
}

func (c *SimControl) Register(mux *http.ServeMux) {
	mux.HandleFunc("/word", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if c.Faults().FetchFail {
			http.Error(w, "simulated fetch failure", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(c.NextLine() + "\r\n"))
	})

	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		if c.audioPath == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		http.ServeFile(w, r, c.audioPath)
	})

	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		c.Reset()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/touch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !c.Touch() {
			writeSimError(w, http.StatusServiceUnavailable, "touch not wired")
			return
		}
		writeSimJSON(w, http.StatusAccepted, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, c.Faults())
			return
		case http.MethodPost:
			var patch struct {
				FetchFail   *bool `json:"fetchFail"`
				Malformed   *bool `json:"malformed"`
				WordTooLong *bool `json:"wordTooLong"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := c.Faults()
			if patch.FetchFail != nil {
				current.FetchFail = *patch.FetchFail
			}
			if patch.Malformed != nil {
				current.Malformed = *patch.Malformed
			}
			if patch.WordTooLong != nil {
				current.WordTooLong = *patch.WordTooLong
			}
			c.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
			return
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}

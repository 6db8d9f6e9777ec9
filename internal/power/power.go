// Package power puts the device into light sleep with a wake source armed.
package power

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rook-computer/wordclock/internal/system"
)

var ErrNotArmed = errors.New("no wake source armed")

// Sleeper enters low-power sleep. Sleep blocks until the armed wake source
// fires.
type Sleeper interface {
	Arm(pin int) error
	Sleep(ctx context.Context) error
}

const sleepScript = "sleep.sh"

// ScriptSleeper drives the board's sleep script: `sleep.sh arm <pin>` once,
// then `sleep.sh light <pin>` per sleep.
type ScriptSleeper struct {
	Runner system.Runner
	Script string

	mu    sync.Mutex
	pin   int
	armed bool
}

func (s *ScriptSleeper) script() string {
	if s.Script == "" {
		return sleepScript
	}
	return s.Script
}

func (s *ScriptSleeper) Arm(pin int) error {
	if pin < 0 {
		return fmt.Errorf("invalid wake pin %d", pin)
	}
	_, stderr, err := s.Runner.Run(context.Background(), s.script(), "arm", strconv.Itoa(pin))
	if err != nil {
		return fmt.Errorf("arm wake pin %d failed: %v: %s", pin, err, stderr)
	}
	s.mu.Lock()
	s.pin = pin
	s.armed = true
	s.mu.Unlock()
	return nil
}

func (s *ScriptSleeper) Sleep(ctx context.Context) error {
	s.mu.Lock()
	pin, armed := s.pin, s.armed
	s.mu.Unlock()
	if !armed {
		return ErrNotArmed
	}
	_, stderr, err := s.Runner.Run(ctx, s.script(), "light", strconv.Itoa(pin))
	if err != nil {
		return fmt.Errorf("light sleep failed: %v: %s", err, stderr)
	}
	return nil
}

// Noop records the armed pin and returns from Sleep at once.
type Noop struct {
	mu     sync.Mutex
	pin    int
	sleeps int
}

func (n *Noop) Arm(pin int) error {
	n.mu.Lock()
	n.pin = pin
	n.mu.Unlock()
	return nil
}

func (n *Noop) Sleep(ctx context.Context) error {
	n.mu.Lock()
	n.sleeps++
	n.mu.Unlock()
	return ctx.Err()
}

func (n *Noop) Sleeps() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sleeps
}

func (n *Noop) Pin() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pin
}

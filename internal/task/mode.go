package task

import (
	"fmt"

	"github.com/rook-computer/wordclock/internal/state"
)

type Event string

const (
	EventTouch  Event = "touch"
	EventExpire Event = "expire"
)

// Transition is the device mode machine: a touch wakes the device and
// starts the countdown, expiry puts it back to sleep. A touch while active
// re-arms without restarting the countdown.
func Transition(current state.Mode, event Event) (state.Mode, error) {
	switch current {
	case state.Idle:
		switch event {
		case EventTouch:
			return state.Active, nil
		default:
			return current, invalidTransition(current, event)
		}
	case state.Active:
		switch event {
		case EventTouch:
			return state.Active, nil
		case EventExpire:
			return state.Idle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown mode %d", int(current))
	}
}

func invalidTransition(mode state.Mode, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", mode, event)
}

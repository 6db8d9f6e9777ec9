package task

import (
	"fmt"
	"time"
)

// Tick is what one second of countdown asks the device to do.
type Tick struct {
	// Display is the time shown for this tick, taken before the decrement.
	Display string
	// Remaining is the time left after the decrement.
	Remaining time.Duration
	// WordRequest is set when the seconds borrowed from the minutes.
	WordRequest bool
	// Replay is set when the remaining seconds are a nonzero multiple of
	// the repeat interval.
	Replay bool
	// Expired is set when the countdown reached 00:00; it has already been
	// reset to its start value.
	Expired bool
}

// Countdown is the mm:ss study timer. It is not safe for concurrent use.
type Countdown struct {
	startMin, startSec int
	repeat             int

	min, sec int
}

func NewCountdown(start, repeat time.Duration) *Countdown {
	total := int(start / time.Second)
	c := &Countdown{
		startMin: total / 60,
		startSec: total % 60,
		repeat:   int(repeat / time.Second),
	}
	c.Reset()
	return c
}

func (c *Countdown) Reset() {
	c.min, c.sec = c.startMin, c.startSec
}

func (c *Countdown) Remaining() time.Duration {
	return time.Duration(c.min*60+c.sec) * time.Second
}

// Display formats the current value the way it is drawn.
func (c *Countdown) Display() string {
	return formatTime(c.min, c.sec)
}

func formatTime(min, sec int) string {
	return fmt.Sprintf("%02d : %02d", min, sec)
}

// Tick advances the countdown by one second.
func (c *Countdown) Tick() Tick {
	t := Tick{Display: formatTime(c.min, c.sec)}

	c.sec--
	if c.sec < 0 {
		t.WordRequest = true
		c.sec = 59
		c.min--
		if c.min < 0 {
			c.min = c.startMin
		}
	}

	if c.min == 0 && c.sec == 0 {
		t.Expired = true
		c.Reset()
	} else if c.repeat > 0 && c.sec%c.repeat == 0 && c.sec != 0 {
		t.Replay = true
	}
	t.Remaining = c.Remaining()
	if t.Expired {
		t.Remaining = 0
	}
	return t
}

package task

import (
	"testing"
	"time"

	"github.com/rook-computer/wordclock/internal/state"
	"github.com/stretchr/testify/require"
)

func TestCountdownExpiresOnceAfter120Ticks(t *testing.T) {
	c := NewCountdown(2*time.Minute, 15*time.Second)

	expired := 0
	var last Tick
	for i := 1; i <= 120; i++ {
		last = c.Tick()
		require.GreaterOrEqual(t, last.Remaining, time.Duration(0))
		if last.Expired {
			expired++
			require.Equal(t, 120, i)
		}
	}
	require.Equal(t, 1, expired)
	require.Equal(t, "00 : 01", last.Display)
	require.Equal(t, "02 : 00", c.Display())
	require.Equal(t, 2*time.Minute, c.Remaining())
}

func TestCountdownDisplaysBeforeDecrement(t *testing.T) {
	c := NewCountdown(2*time.Minute, 15*time.Second)

	first := c.Tick()
	require.Equal(t, "02 : 00", first.Display)
	require.Equal(t, 119*time.Second, first.Remaining)

	second := c.Tick()
	require.Equal(t, "01 : 59", second.Display)
}

func TestCountdownWordRequestsOnMinuteBorrow(t *testing.T) {
	c := NewCountdown(2*time.Minute, 15*time.Second)

	var at []int
	for i := 1; i <= 120; i++ {
		if c.Tick().WordRequest {
			at = append(at, i)
		}
	}
	// 02:00 -> 01:59 and 01:00 -> 00:59. The first borrow comes from the
	// firmware's seconds starting at 0 and underflowing on the first tick.
	require.Equal(t, []int{1, 61}, at)
}

func TestCountdownReplaysOnRepeatInterval(t *testing.T) {
	c := NewCountdown(2*time.Minute, 15*time.Second)

	var at []time.Duration
	for i := 1; i <= 135; i++ {
		tick := c.Tick()
		if tick.Replay {
			at = append(at, tick.Remaining)
		}
	}
	require.Equal(t, []time.Duration{
		105 * time.Second, 90 * time.Second, 75 * time.Second,
		45 * time.Second, 30 * time.Second, 15 * time.Second,
		// The second cycle starts at tick 121.
		105 * time.Second,
	}, at)
}

func TestCountdownShortStart(t *testing.T) {
	c := NewCountdown(3*time.Second, 2*time.Second)

	a, b, d := c.Tick(), c.Tick(), c.Tick()
	require.Equal(t, "00 : 03", a.Display)
	require.True(t, a.Replay)
	require.False(t, b.Replay)
	require.True(t, d.Expired)
	require.False(t, a.WordRequest || b.WordRequest || d.WordRequest)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		mode    state.Mode
		event   Event
		want    state.Mode
		wantErr bool
	}{
		{name: "idle touch wakes", mode: state.Idle, event: EventTouch, want: state.Active},
		{name: "active touch re-arms", mode: state.Active, event: EventTouch, want: state.Active},
		{name: "active expire sleeps", mode: state.Active, event: EventExpire, want: state.Idle},
		{name: "idle expire invalid", mode: state.Idle, event: EventExpire, want: state.Idle, wantErr: true},
		{name: "unknown event invalid", mode: state.Active, event: Event("shake"), want: state.Active, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.mode, tt.event)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

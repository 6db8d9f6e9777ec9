// Package task runs the device's periodic activities: the countdown timer,
// the word fetch trigger, the screen refresh, and the audio pump.
package task

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/wordclock/internal/logging"
	"github.com/rook-computer/wordclock/internal/panel"
	"github.com/rook-computer/wordclock/internal/power"
	"github.com/rook-computer/wordclock/internal/render"
	"github.com/rook-computer/wordclock/internal/state"
	"github.com/rook-computer/wordclock/internal/touch"
	"github.com/rook-computer/wordclock/internal/wordfetch"
	"golang.org/x/sync/errgroup"
)

type WordSource interface {
	Fetch(ctx context.Context) (wordfetch.Entry, error)
}

type AudioPlayer interface {
	Run() error
	Pump()
}

// Periods is the tail delay of each activity.
type Periods struct {
	Timer   time.Duration
	Main    time.Duration
	Refresh time.Duration
	Audio   time.Duration
}

type Origins struct {
	Word     image.Point
	Sentence image.Point
	Time     image.Point
}

type Options struct {
	Periods    Periods
	Start      time.Duration
	Repeat     time.Duration
	Origins    Origins
	QueueSize  int
	WakePin    int
	Background uint16
}

// Deps are the collaborators the activities drive.
type Deps struct {
	Panel   panel.Panel
	Engine  *render.Engine
	Words   WordSource
	Audio   AudioPlayer
	Sleeper power.Sleeper
	Store   *state.Store
}

// Coordinator owns the countdown, the two coordination flags, and the
// update queue. Producers (timer, main) only send updates; the refresh
// activity alone touches the screen record and the render engine.
type Coordinator struct {
	Logger logging.Logger
	// Fatal receives panel failures. The activities stop after it is called.
	Fatal func(error)
	// PowerSave, when set, runs once before the first sleep.
	PowerSave func(ctx context.Context) error

	opts Options
	deps Deps

	touch *touch.Flag
	queue *state.Queue

	countdown *Countdown   // timer activity only
	record    state.Record // refresh activity only

	wordPending atomic.Bool
	active      atomic.Bool
	ticks       atomic.Uint64
	fatalOnce   sync.Once

	modeMu sync.Mutex
	mode   state.Mode

	// panelMu keeps power switching from landing inside a draw sequence.
	panelMu sync.Mutex
}

func New(opts Options, deps Deps) *Coordinator {
	if deps.Store == nil {
		deps.Store = state.NewStore()
	}
	if deps.Sleeper == nil {
		deps.Sleeper = &power.Noop{}
	}
	c := &Coordinator{
		Logger:    logging.NoopLogger{},
		opts:      opts,
		deps:      deps,
		touch:     touch.NewFlag(),
		queue:     state.NewQueue(opts.QueueSize),
		countdown: NewCountdown(opts.Start, opts.Repeat),
		mode:      state.Idle,
	}
	deps.Store.SetRemaining(c.countdown.Remaining(), c.countdown.Display())
	return c
}

// TouchInterrupt is the touch driver callback. It never blocks; touches
// that arrive before the refresh activity saw the previous one coalesce.
func (c *Coordinator) TouchInterrupt() {
	c.touch.Raise()
}

func (c *Coordinator) Mode() state.Mode {
	c.modeMu.Lock()
	defer c.modeMu.Unlock()
	return c.mode
}

func (c *Coordinator) Ticks() uint64 { return c.ticks.Load() }

func (c *Coordinator) WordRequestPending() bool { return c.wordPending.Load() }

func (c *Coordinator) CountdownActive() bool { return c.active.Load() }

// Run prepares the panel, starts the activities, and puts the device to
// sleep until the first touch. It returns when ctx is done or after a
// fatal panel error.
func (c *Coordinator) Run(ctx context.Context) error {
	if err := c.Prepare(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	p := c.opts.Periods
	g.Go(func() error { return c.loop(gctx, p.Timer, c.TimerStep) })
	g.Go(func() error { return c.loop(gctx, p.Main, c.MainStep) })
	g.Go(func() error { return c.loop(gctx, p.Refresh, c.RefreshStep) })
	g.Go(func() error {
		return c.loop(gctx, p.Audio, func(context.Context) error {
			c.AudioStep()
			return nil
		})
	})

	c.sleep(gctx)
	return g.Wait()
}

// Prepare blanks the panel, paints the background, enables radio power
// save, and arms the wake pin.
func (c *Coordinator) Prepare(ctx context.Context) error {
	if err := c.displayPower(false); err != nil {
		return c.fail(err)
	}
	if c.deps.Engine != nil {
		if err := c.deps.Engine.FillBackground(ctx, c.opts.Background); err != nil {
			return c.fail(err)
		}
	}
	if c.PowerSave != nil {
		if err := c.PowerSave(ctx); err != nil {
			c.Logger.Errorf("power", "wifi power save: %v", err)
		} else {
			c.Logger.Infof("power", "wifi power save enabled")
		}
	}
	if err := c.deps.Sleeper.Arm(c.opts.WakePin); err != nil {
		c.Logger.Errorf("power", "arm wake pin %d: %v", c.opts.WakePin, err)
	}
	return nil
}

func (c *Coordinator) loop(ctx context.Context, period time.Duration, step func(context.Context) error) error {
	if period <= 0 {
		period = time.Second
	}
	t := time.NewTimer(period)
	defer t.Stop()
	for {
		if err := step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		t.Reset(period)
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// TimerStep is one 1 Hz tick.
func (c *Coordinator) TimerStep(ctx context.Context) error {
	c.ticks.Add(1)
	if !c.active.Load() {
		return nil
	}

	t := c.countdown.Tick()
	c.Logger.Infof("timer", "time %s", t.Display)
	c.deps.Store.SetRemaining(t.Remaining, t.Display)
	if c.queue.Offer(state.FieldUpdate(state.Time, t.Display, c.opts.Origins.Time)) {
		c.Logger.Infof("timer", "refresh behind, %d updates waiting", c.queue.Len())
	}
	if t.WordRequest {
		c.wordPending.Store(true)
	}

	if t.Expired {
		return c.expire(ctx)
	}
	if t.Replay {
		c.replay("timer")
	}
	return nil
}

func (c *Coordinator) expire(ctx context.Context) error {
	c.active.Store(false)
	c.transition(EventExpire)
	c.deps.Store.SetRemaining(c.countdown.Remaining(), c.countdown.Display())
	c.Logger.Infof("timer", "countdown expired, start sleep")

	if err := c.displayPower(false); err != nil {
		return c.fail(err)
	}
	c.sleep(ctx)
	return nil
}

func (c *Coordinator) sleep(ctx context.Context) {
	c.deps.Store.Count(func(n *state.Counters) { n.Sleeps++ })
	if err := c.deps.Sleeper.Sleep(ctx); err != nil && ctx.Err() == nil {
		c.Logger.Errorf("power", "light sleep: %v", err)
		return
	}
	c.Logger.Infof("power", "woke up")
}

// MainStep services a pending word request. The request flag is cleared
// whether or not the fetch succeeded; a failure waits for the next borrow.
func (c *Coordinator) MainStep(ctx context.Context) error {
	if !c.wordPending.Load() {
		return nil
	}
	defer c.wordPending.Store(false)

	entry, err := c.deps.Words.Fetch(ctx)
	if err != nil {
		c.deps.Store.Count(func(n *state.Counters) { n.FetchFailed++ })
		c.Logger.Errorf("word", "fetch failed: %v", err)
		return nil
	}
	c.deps.Store.Count(func(n *state.Counters) { n.FetchOK++ })
	c.deps.Store.SetEntry(entry.Word, entry.Sentence)
	c.Logger.Infof("main", "word %q", entry.Word)
	c.Logger.Infof("main", "sentence %q", entry.Sentence)

	for _, u := range []state.Update{
		state.ClearUpdate(),
		state.FieldUpdate(state.Word, entry.Word, c.opts.Origins.Word),
		state.FieldUpdate(state.Sentence, entry.Sentence, c.opts.Origins.Sentence),
	} {
		if err := c.queue.Send(ctx, u); err != nil {
			return err
		}
	}
	c.replay("main")
	return nil
}

// RefreshStep dispatches a pending touch, then redraws every dirty field.
func (c *Coordinator) RefreshStep(ctx context.Context) error {
	if c.touch.Take() {
		if err := c.onTouch(); err != nil {
			return c.fail(err)
		}
	}

	if _, truncated := c.queue.Drain(&c.record); truncated > 0 {
		c.deps.Store.Count(func(n *state.Counters) { n.Truncations += int64(truncated) })
		c.Logger.Infof("refresh", "%d field updates truncated to capacity", truncated)
	}
	if c.deps.Engine == nil {
		return nil
	}

	c.panelMu.Lock()
	defer c.panelMu.Unlock()
	if c.record.ClearPending() {
		if err := c.deps.Engine.ResetBackground(ctx); err != nil {
			return c.fail(err)
		}
		c.record.ClearDone()
	}
	for _, f := range c.record.Dirty() {
		sf := c.record.Field(f)
		if _, err := c.deps.Engine.DrawString(ctx, sf.Text, sf.Origin); err != nil {
			return c.fail(err)
		}
		c.record.Drawn(f)
	}
	return nil
}

// AudioStep pumps one audio pipeline event.
func (c *Coordinator) AudioStep() {
	if c.deps.Audio != nil {
		c.deps.Audio.Pump()
	}
}

func (c *Coordinator) onTouch() error {
	c.Logger.Infof("touch", "touch occurred")
	c.deps.Store.Count(func(n *state.Counters) { n.Touches++ })
	c.active.Store(true)
	c.transition(EventTouch)
	return c.displayPower(true)
}

func (c *Coordinator) transition(ev Event) {
	c.modeMu.Lock()
	defer c.modeMu.Unlock()
	next, err := Transition(c.mode, ev)
	if err != nil {
		c.Logger.Errorf("app", "%v", err)
		return
	}
	c.mode = next
	c.deps.Store.SetMode(next)
}

func (c *Coordinator) replay(from string) {
	if c.deps.Audio == nil {
		return
	}
	if err := c.deps.Audio.Run(); err != nil {
		c.Logger.Errorf("audio", "replay from %s: %v", from, err)
		return
	}
	c.deps.Store.Count(func(n *state.Counters) { n.AudioReplays++ })
}

func (c *Coordinator) displayPower(on bool) error {
	if c.deps.Panel == nil {
		return nil
	}
	c.panelMu.Lock()
	defer c.panelMu.Unlock()
	if err := c.deps.Panel.SetDisplayOn(on); err != nil {
		return err
	}
	return c.deps.Panel.SetBacklight(on)
}

func (c *Coordinator) fail(err error) error {
	c.fatalOnce.Do(func() {
		c.Logger.Errorf("panel", "fatal: %v", err)
		if c.Fatal != nil {
			c.Fatal(err)
		}
	})
	return err
}

// Package app wires the device together and runs it until exit.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/wordclock/internal/audio"
	"github.com/rook-computer/wordclock/internal/logging"
	"github.com/rook-computer/wordclock/internal/panel"
	"github.com/rook-computer/wordclock/internal/state"
	"github.com/rook-computer/wordclock/internal/system"
	"github.com/rook-computer/wordclock/internal/task"
	"github.com/rook-computer/wordclock/internal/touch"
	"github.com/rook-computer/wordclock/internal/web"
)

type App struct {
	Store       *state.Store
	Coordinator *task.Coordinator
	Web         web.Server
	Panel       panel.Panel
	Touch       touch.Driver
	Audio       *audio.Player
	Logger      logging.Logger

	// ClaimConsole switches the tty to graphics mode while running; only
	// meaningful when the panel is the console framebuffer.
	ClaimConsole bool

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, coord *task.Coordinator, webServer web.Server, p panel.Panel) *App {
	a := &App{
		Store:       store,
		Coordinator: coord,
		Web:         webServer,
		Panel:       p,
		Touch:       touch.NoopDriver{},
		Logger:      logging.NoopLogger{},
		exitCh:      make(chan error, 1),
	}
	if coord != nil {
		coord.Fatal = a.Exit
	}
	return a
}

// Exit requests the app to stop running. Only the first call has effect.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the web server, the touch driver, and the coordinator. It
// returns nil when ctx is done and the exit error otherwise.
func (app *App) Start(ctx context.Context) error {
	if app.Coordinator == nil {
		return errors.New("app has no coordinator")
	}
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Logger == nil {
		app.Logger = logging.NoopLogger{}
	}

	if app.ClaimConsole {
		restore := system.ClaimConsole(app.Logger)
		defer restore()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.Web != nil {
		if err := app.Web.Start(runCtx); err != nil {
			app.Logger.Errorf("app", "web server start error: %v", err)
			return err
		}
		defer func() { _ = app.Web.Stop() }()
	}

	var wg sync.WaitGroup
	if app.Touch != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.Touch.Watch(runCtx, app.Coordinator.TouchInterrupt); err != nil && runCtx.Err() == nil {
				app.Logger.Errorf("touch", "driver stopped: %v", err)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.Coordinator.Run(runCtx); err != nil && runCtx.Err() == nil {
			app.Exit(err)
		}
	}()

	app.Logger.Infof("app", "running")
	var err error
	select {
	case <-ctx.Done():
	case err = <-app.exitCh:
		if err != nil {
			app.Logger.Errorf("app", "exit: %v", err)
		}
	}
	cancel()
	wg.Wait()
	// The activities have returned, so no replay can start after this.
	if app.Audio != nil {
		app.Audio.Stop()
	}
	return err
}

// Stop releases the hardware.
func (app *App) Stop() error {
	var errs []error
	if app.Touch != nil {
		errs = append(errs, app.Touch.Close())
	}
	if app.Audio != nil && app.Audio.Output != nil {
		errs = append(errs, app.Audio.Output.Close())
	}
	if app.Panel != nil {
		errs = append(errs, app.Panel.Close())
	}
	return errors.Join(errs...)
}

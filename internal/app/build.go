package app

import (
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/rook-computer/wordclock/internal/audio"
	"github.com/rook-computer/wordclock/internal/config"
	"github.com/rook-computer/wordclock/internal/font"
	"github.com/rook-computer/wordclock/internal/logging"
	"github.com/rook-computer/wordclock/internal/panel"
	"github.com/rook-computer/wordclock/internal/power"
	"github.com/rook-computer/wordclock/internal/render"
	"github.com/rook-computer/wordclock/internal/state"
	"github.com/rook-computer/wordclock/internal/system"
	"github.com/rook-computer/wordclock/internal/task"
	"github.com/rook-computer/wordclock/internal/touch"
	"github.com/rook-computer/wordclock/internal/web"
	"github.com/rook-computer/wordclock/internal/wordfetch"
)

// Components overrides the hardware Build would otherwise open from the
// configuration. Zero fields use the configured device drivers.
type Components struct {
	Panel   panel.Panel
	Touch   touch.Driver
	Sleeper power.Sleeper
	Runner  system.Runner
	Output  audio.Output
	Font    *font.Table

	// LinkURL defaults to the device Wi-Fi address.
	LinkURL func(ctx context.Context) (string, error)

	StaticDir string
	DevMode   bool
	// Routes registers extra handlers on the web server.
	Routes func(mux *http.ServeMux)
}

// Build assembles an App from cfg.
func Build(ctx context.Context, cfg config.Config, c Components, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	runner := c.Runner
	if runner == nil {
		runner = system.ShellRunner{Logger: logger}
	}

	p := c.Panel
	if p == nil {
		var err error
		p, err = panel.Open(ctx, panel.Options{
			Driver:        cfg.Panel.Driver,
			Width:         cfg.Display.Width,
			Height:        cfg.Display.Height,
			Device:        cfg.Panel.Device,
			BacklightPath: cfg.Panel.BacklightPath,
			SPIPort:       cfg.Panel.SPIPort,
			SPISpeedHz:    cfg.Panel.SPISpeedHz,
			DCPin:         cfg.Panel.DCPin,
			ResetPin:      cfg.Panel.ResetPin,
			BacklightPin:  cfg.Panel.BacklightPin,
		})
		if err != nil {
			return nil, fmt.Errorf("open panel: %w", err)
		}
	}

	table := c.Font
	if table == nil {
		if cfg.Font.Path == "" {
			table = font.Default()
		} else {
			var err error
			table, err = font.Load(cfg.Font.Path)
			if err != nil {
				_ = p.Close()
				return nil, fmt.Errorf("load font: %w", err)
			}
		}
	}
	logger.Infof("app", "glyph table with %d entries", table.Len())

	engine := render.NewEngine(p, table, render.Style{
		Foreground: cfg.Display.Foreground,
		Background: cfg.Display.Background,
		GapX:       cfg.Display.GapX,
		GapY:       cfg.Display.GapY,
		Margin:     cfg.Display.Margin,
	}, cfg.Display.BlitTimeout)
	engine.Logger = logger

	out := c.Output
	if out == nil {
		var err error
		out, err = audio.NewOutput(cfg.Audio.Output)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
	}
	player := audio.NewPlayer(cfg.Audio.URL, out)
	player.Logger = logger

	drv := c.Touch
	if drv == nil {
		var err error
		drv, err = touch.Open(touch.Options{
			Driver: cfg.Touch.Driver,
			Pin:    cfg.Touch.Pin,
			Device: cfg.Touch.Device,
			Logger: logger,
		})
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("open touch: %w", err)
		}
	}

	sleeper := c.Sleeper
	if sleeper == nil {
		sleeper = &power.ScriptSleeper{Runner: runner, Script: cfg.Power.SleepScript}
	}

	store := state.NewStore()
	words := wordfetch.NewClient(cfg.Word.URL, cfg.Word.Timeout)
	o := cfg.Display.Origins
	coord := task.New(task.Options{
		Periods: task.Periods{
			Timer:   cfg.Tasks.Timer,
			Main:    cfg.Tasks.Main,
			Refresh: cfg.Tasks.Refresh,
			Audio:   cfg.Tasks.Audio,
		},
		Start:  cfg.Countdown.Start,
		Repeat: cfg.Countdown.Repeat,
		Origins: task.Origins{
			Word:     image.Pt(o.Word.X, o.Word.Y),
			Sentence: image.Pt(o.Sentence.X, o.Sentence.Y),
			Time:     image.Pt(o.Time.X, o.Time.Y),
		},
		QueueSize:  cfg.Tasks.QueueSize,
		WakePin:    cfg.Power.WakePin,
		Background: cfg.Display.Background,
	}, task.Deps{
		Panel:   p,
		Engine:  engine,
		Words:   words,
		Audio:   player,
		Sleeper: sleeper,
		Store:   store,
	})
	coord.Logger = logger
	if cfg.Power.WiFiPowerSave {
		coord.PowerSave = func(ctx context.Context) error { return system.WiFiPowerSave(ctx, runner) }
	}

	link := c.LinkURL
	if link == nil {
		link = web.DeviceLinkURL(runner, cfg.Web.Listen)
	}
	deps := web.APIV1Deps{
		Status:  store,
		Touch:   coord.TouchInterrupt,
		LinkURL: link,
	}
	if snap, ok := p.(panel.Snapshotter); ok {
		deps.Screen = func() image.Image { return snap.Snapshot() }
	}
	server := web.NewHTTPServer(cfg.Web.Listen, deps)
	server.StaticDir = c.StaticDir
	server.DevMode = c.DevMode
	server.Extra = c.Routes
	server.Logger = logger

	a := New(store, coord, server, p)
	a.Touch = drv
	a.Audio = player
	a.Logger = logger
	a.ClaimConsole = cfg.Panel.Driver == panel.DriverFBDev
	return a, nil
}

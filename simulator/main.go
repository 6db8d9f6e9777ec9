package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/wordclock/internal/app"
	"github.com/rook-computer/wordclock/internal/assets"
	"github.com/rook-computer/wordclock/internal/audio"
	"github.com/rook-computer/wordclock/internal/config"
	"github.com/rook-computer/wordclock/internal/logging"
	"github.com/rook-computer/wordclock/internal/panel"
	"github.com/rook-computer/wordclock/internal/power"
	"github.com/rook-computer/wordclock/internal/system"
	"github.com/rook-computer/wordclock/internal/touch"
	"github.com/rook-computer/wordclock/internal/web"
)

func main() {
	defaultListen := os.Getenv(config.EnvListen)
	if defaultListen == "" {
		defaultListen = ":8080"
	}

	listenAddr := flag.String("listen", defaultListen, "http listen address; also configurable via "+config.EnvListen)
	devMode := flag.Bool("dev", false, "allow CORS from loopback origins for UI development")
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	configPath := flag.String("config", "", "optional YAML configuration; panel, touch and word service settings are replaced")
	audioFile := flag.String("audio-file", "", "mp3 served at /audio.mp3 (optional)")
	audioOutput := flag.String("audio-output", audio.OutputNone, "audio output: none | pulse | oto")
	window := flag.Bool("window", false, "show the panel in a desktop window; click to touch (needs -tags ebiten)")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	rt, err := logging.New(*logPath, "text")
	if err != nil {
		fmt.Println("log open error:", err)
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Println("config error:", err)
			os.Exit(2)
		}
		cfg = loaded.Config
	}

	host, port, err := net.SplitHostPort(*listenAddr)
	if err != nil || port == "" || port == "0" {
		fmt.Println("listen address needs a fixed port:", *listenAddr)
		os.Exit(2)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	self := "http://" + net.JoinHostPort(host, port)

	cfg.Web.Listen = *listenAddr
	cfg.Word.URL = self + "/word"
	cfg.Audio.URL = self + "/audio.mp3"
	cfg.Audio.Output = *audioOutput
	cfg.Panel.Driver = panel.DriverMemory
	cfg.Power.WiFiPowerSave = false

	words, err := assets.Words()
	if err != nil {
		fmt.Println("word list error:", err)
		os.Exit(2)
	}
	control := NewSimControl(words, *audioFile)
	mem := panel.NewMemory(cfg.Display.Width, cfg.Display.Height)

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(processCtx, cfg, app.Components{
		Panel:     mem,
		Touch:     touch.NoopDriver{},
		Sleeper:   &power.Noop{},
		Runner:    system.NoopRunner{},
		LinkURL:   web.StaticLinkURL(host, *listenAddr),
		StaticDir: *staticDir,
		DevMode:   *devMode,
		Routes:    control.Register,
	}, rt.Logger)
	if err != nil {
		fmt.Println("app build error:", err)
		os.Exit(1)
	}
	control.SetTouch(a.Coordinator.TouchInterrupt)

	fmt.Println("Wordclock simulator listening on", *listenAddr)
	fmt.Println("Word service:", cfg.Word.URL)
	fmt.Println("API: " + self + "/api/v1/")

	ctx, cancel := context.WithCancel(processCtx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	if *window {
		// The window owns the main thread until it is closed.
		if err := runWindow(ctx, mem, a.Coordinator.TouchInterrupt); err != nil {
			fmt.Println("window error:", err)
		}
		cancel()
	}

	code := 0
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("simulator error:", err)
		code = 1
	}
	_ = a.Stop()
	_ = rt.Close()
	os.Exit(code)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/wordclock/internal/app"
	"github.com/rook-computer/wordclock/internal/config"
	"github.com/rook-computer/wordclock/internal/logging"
)

const (
	envStdioLog  = "WORDCLOCK_STDIO_LOG"
	debugLogPath = "./wordclock-debug.log"
)

func main() {
	os.Exit(run())
}

func run() int {
	fmt.Println("Wordclock starting")

	configPath := flag.String("config", config.DefaultPath, "path to the YAML configuration file")
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogPath)
	logFormat := flag.String("log-format", "text", "debug log format: text | json")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+envStdioLog)
	flag.Parse()

	// Panics leave the console in graphics mode, so keep their traces in a file.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv(envStdioLog)
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	rt := logging.Runtime{Logger: logging.NoopLogger{}}
	if *debug {
		var err error
		rt, err = logging.New(debugLogPath, *logFormat)
		if err != nil {
			fmt.Println("debug log open error:", err)
			rt = logging.Runtime{Logger: logging.NoopLogger{}}
		} else {
			rt.Logger.Infof("main", "debug logging enabled (%s)", *logFormat)
		}
	}
	defer rt.Close()
	logger := rt.Logger

	loaded, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		return 2
	}
	for _, w := range loaded.Warnings {
		fmt.Println("config warning:", w.Message)
		logger.Infof("main", "config warning: %s", w.Message)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, loaded.Config, app.Components{}, logger)
	if err != nil {
		fmt.Println("app build error:", err)
		logger.Errorf("main", "build: %v", err)
		return 1
	}

	code := 0
	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		code = 1
	}
	if err := a.Stop(); err != nil {
		fmt.Println("app stop error:", err)
	}
	return code
}

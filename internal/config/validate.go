package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const maxCountdown = 60 * time.Minute

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	periods := []struct {
		name string
		d    time.Duration
	}{
		{"tasks.timer", cfg.Tasks.Timer},
		{"tasks.main", cfg.Tasks.Main},
		{"tasks.refresh", cfg.Tasks.Refresh},
		{"tasks.audio", cfg.Tasks.Audio},
	}
	for _, p := range periods {
		if p.d <= 0 {
			return nil, fmt.Errorf("%s must be > 0", p.name)
		}
	}
	if cfg.Tasks.QueueSize <= 0 {
		return nil, fmt.Errorf("tasks.queue_size must be > 0")
	}
	if cfg.Tasks.Timer != time.Second {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("tasks.timer=%v; the countdown still steps one second per tick", cfg.Tasks.Timer)})
	}

	if cfg.Countdown.Start <= 0 || cfg.Countdown.Start >= maxCountdown {
		return nil, fmt.Errorf("countdown.start must be within (0s, %v)", maxCountdown)
	}
	if cfg.Countdown.Start%time.Second != 0 {
		return nil, fmt.Errorf("countdown.start must be a whole number of seconds")
	}
	if cfg.Countdown.Repeat < time.Second || cfg.Countdown.Repeat > 59*time.Second || cfg.Countdown.Repeat%time.Second != 0 {
		return nil, fmt.Errorf("countdown.repeat must be 1s..59s in whole seconds")
	}

	if err := validateURL("word.url", cfg.Word.URL); err != nil {
		return nil, err
	}
	if cfg.Word.Timeout <= 0 {
		return nil, fmt.Errorf("word.timeout must be > 0")
	}
	if strings.TrimSpace(cfg.Audio.URL) == "" {
		warnings = append(warnings, Warning{Message: "audio.url is empty; replay cues are logged only"})
	} else if err := validateURL("audio.url", cfg.Audio.URL); err != nil {
		return nil, err
	}
	if !oneOf(cfg.Audio.Output, "none", "pulse", "oto") {
		return nil, fmt.Errorf("audio.output must be one of: none, pulse, oto")
	}

	d := cfg.Display
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("display.width and display.height must be > 0")
	}
	if d.Margin < 0 || d.Margin*2 >= d.Width {
		return nil, fmt.Errorf("display.margin must be >= 0 and < width/2")
	}
	if d.GapX < 0 || d.GapY < 0 {
		return nil, fmt.Errorf("display.gap_x and display.gap_y must be >= 0")
	}
	if d.BlitTimeout <= 0 {
		return nil, fmt.Errorf("display.blit_timeout must be > 0")
	}
	for name, p := range map[string]Point{
		"word":     d.Origins.Word,
		"sentence": d.Origins.Sentence,
		"time":     d.Origins.Time,
	} {
		if p.X < 0 || p.Y < 0 || p.X >= d.Width || p.Y >= d.Height {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("display.origins.%s (%d,%d) is outside the panel", name, p.X, p.Y)})
		}
	}

	if !oneOf(cfg.Panel.Driver, "memory", "fbdev", "ili9341") {
		return nil, fmt.Errorf("panel.driver must be one of: memory, fbdev, ili9341")
	}
	if !oneOf(cfg.Touch.Driver, "none", "gpio", "evdev") {
		return nil, fmt.Errorf("touch.driver must be one of: none, gpio, evdev")
	}
	if cfg.Touch.Driver == "gpio" && strings.TrimSpace(cfg.Touch.Pin) == "" {
		return nil, fmt.Errorf("touch.pin must not be empty when touch.driver=gpio")
	}
	if cfg.Touch.Driver == "none" {
		warnings = append(warnings, Warning{Message: "touch.driver=none; the countdown only starts from the web API"})
	}
	if cfg.Power.WakePin < 0 {
		return nil, fmt.Errorf("power.wake_pin must be >= 0")
	}

	return warnings, nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL", key)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must have a host", key)
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvWordURL, "")
	t.Setenv(EnvAudioURL, "")
	t.Setenv(EnvListen, "")
}

func TestDefaultIsValid(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)

	cfg := Default()
	require.Equal(t, time.Second, cfg.Tasks.Timer)
	require.Equal(t, 50*time.Millisecond, cfg.Tasks.Main)
	require.Equal(t, 500*time.Millisecond, cfg.Tasks.Refresh)
	require.Equal(t, 10*time.Millisecond, cfg.Tasks.Audio)
	require.Equal(t, 2*time.Minute, cfg.Countdown.Start)
	require.Equal(t, 8, cfg.Power.WakePin)
	require.Equal(t, Point{X: 150, Y: 200}, cfg.Display.Origins.Time)
}

func TestLoadMissingConfigUsesDefaultsWithWarning(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "missing.yaml")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, loaded.Path)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.NotEmpty(t, loaded.Warnings)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadExistingYAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
tasks:
  refresh: 250ms
countdown:
  start: 1m30s
  repeat: 10s
word:
  url: http://10.0.0.2:9000/word
display:
  foreground: 0xF800
  origins:
    time: {x: 120, y: 210}
panel:
  driver: memory
touch:
  driver: evdev
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)

	cfg := loaded.Config
	require.Equal(t, 250*time.Millisecond, cfg.Tasks.Refresh)
	require.Equal(t, time.Second, cfg.Tasks.Timer)
	require.Equal(t, 90*time.Second, cfg.Countdown.Start)
	require.Equal(t, 10*time.Second, cfg.Countdown.Repeat)
	require.Equal(t, "http://10.0.0.2:9000/word", cfg.Word.URL)
	require.Equal(t, uint16(0xF800), cfg.Display.Foreground)
	require.Equal(t, Point{X: 120, Y: 210}, cfg.Display.Origins.Time)
	require.Equal(t, Point{X: 10, Y: 60}, cfg.Display.Origins.Sentence)
	require.Equal(t, "memory", cfg.Panel.Driver)
	require.Equal(t, "evdev", cfg.Touch.Driver)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, _, err := Parse("tasks:\n  refreh: 1s\n", Default())
	require.Error(t, err)
}

func TestParseEmptyContentReturnsBase(t *testing.T) {
	cfg, _, err := Parse("   \n", Default())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"zero period":       func(c *Config) { c.Tasks.Main = 0 },
		"zero countdown":    func(c *Config) { c.Countdown.Start = 0 },
		"fractional start":  func(c *Config) { c.Countdown.Start = 1500 * time.Millisecond },
		"repeat too long":   func(c *Config) { c.Countdown.Repeat = time.Minute },
		"bad word url":      func(c *Config) { c.Word.URL = "172.30.1.13:8080/word" },
		"unknown panel":     func(c *Config) { c.Panel.Driver = "hdmi" },
		"unknown touch":     func(c *Config) { c.Touch.Driver = "mouse" },
		"unknown output":    func(c *Config) { c.Audio.Output = "alsa" },
		"margin too wide":   func(c *Config) { c.Display.Margin = 160 },
		"gpio without pin":  func(c *Config) { c.Touch.Pin = "" },
		"zero queue":        func(c *Config) { c.Tasks.QueueSize = 0 },
		"zero blit timeout": func(c *Config) { c.Display.BlitTimeout = 0 },
		"negative wake pin": func(c *Config) { c.Power.WakePin = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
		})
	}
}

func TestValidateWarnsOnOriginOutsidePanel(t *testing.T) {
	cfg := Default()
	cfg.Display.Origins.Time = Point{X: 400, Y: 10}

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "origins.time")
}

func TestEnvOverridesApplyAfterFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWordURL, "http://127.0.0.1:8080/word")
	t.Setenv(EnvListen, ":9090")

	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8080/word", loaded.Config.Word.URL)
	require.Equal(t, ":9090", loaded.Config.Web.Listen)
	require.Equal(t, DefaultAudioURL, loaded.Config.Audio.URL)
}

func TestEnvOverrideIsValidated(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAudioURL, "ftp://nowhere")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

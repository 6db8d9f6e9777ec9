package config

import (
	"errors"
	"fmt"
	"os"
)

const (
	EnvWordURL  = "WORDCLOCK_WORD_URL"
	EnvAudioURL = "WORDCLOCK_AUDIO_URL"
	EnvListen   = "WORDCLOCK_LISTEN"
)

// DefaultPath is used when no -config flag is given.
const DefaultPath = "/etc/wordclock/config.yaml"

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load reads, parses, and validates the configuration at path, then applies
// environment overrides. A missing file yields defaults and a warning.
func Load(path string) (Loaded, error) {
	if path == "" {
		path = DefaultPath
	}

	base := Default()
	content, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Loaded{}, fmt.Errorf("read config %q: %w", path, err)
		}
		cfg, warnings, err := withEnv(base)
		if err != nil {
			return Loaded{}, err
		}
		return Loaded{
			Path:     path,
			Config:   cfg,
			Warnings: append([]Warning{{Message: fmt.Sprintf("config file %q not found; using defaults", path)}}, warnings...),
			Exists:   false,
		}, nil
	}

	cfg, warnings, err := Parse(string(content), base)
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg, envWarnings, err := withEnv(cfg)
	if err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Path:     path,
		Config:   cfg,
		Warnings: append(warnings, envWarnings...),
		Exists:   true,
	}, nil
}

// withEnv applies WORDCLOCK_* overrides and revalidates.
func withEnv(cfg Config) (Config, []Warning, error) {
	changed := false
	if v := os.Getenv(EnvWordURL); v != "" {
		cfg.Word.URL = v
		changed = true
	}
	if v := os.Getenv(EnvAudioURL); v != "" {
		cfg.Audio.URL = v
		changed = true
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Web.Listen = v
		changed = true
	}
	if !changed {
		return cfg, nil, nil
	}
	if _, err := Validate(cfg); err != nil {
		return Config{}, nil, fmt.Errorf("environment override: %w", err)
	}
	return cfg, nil, nil
}

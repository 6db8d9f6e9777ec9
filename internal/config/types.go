// Package config loads, validates, and defaults the wordclock configuration.
package config

import "time"

// Config is the fully materialized runtime configuration.
type Config struct {
	Tasks     TasksConfig     `yaml:"tasks"`
	Countdown CountdownConfig `yaml:"countdown"`
	Word      WordConfig      `yaml:"word"`
	Audio     AudioConfig     `yaml:"audio"`
	Display   DisplayConfig   `yaml:"display"`
	Panel     PanelConfig     `yaml:"panel"`
	Touch     TouchConfig     `yaml:"touch"`
	Power     PowerConfig     `yaml:"power"`
	Font      FontConfig      `yaml:"font"`
	Web       WebConfig       `yaml:"web"`
}

// TasksConfig holds the period of every periodic activity.
type TasksConfig struct {
	Timer   time.Duration `yaml:"timer"`
	Main    time.Duration `yaml:"main"`
	Refresh time.Duration `yaml:"refresh"`
	Audio   time.Duration `yaml:"audio"`
	// QueueSize bounds the field updates waiting for the refresh activity.
	QueueSize int `yaml:"queue_size"`
}

// CountdownConfig controls the study countdown shown after a touch.
type CountdownConfig struct {
	Start  time.Duration `yaml:"start"`
	Repeat time.Duration `yaml:"repeat"`
}

type WordConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type AudioConfig struct {
	URL string `yaml:"url"`
	// Output is one of none, pulse, oto.
	Output string `yaml:"output"`
}

// Point is a pixel coordinate on the panel.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type OriginsConfig struct {
	Word     Point `yaml:"word"`
	Sentence Point `yaml:"sentence"`
	Time     Point `yaml:"time"`
}

// DisplayConfig is the panel geometry and the text style.
type DisplayConfig struct {
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	Margin      int           `yaml:"margin"`
	GapX        int           `yaml:"gap_x"`
	GapY        int           `yaml:"gap_y"`
	BlitTimeout time.Duration `yaml:"blit_timeout"`
	Foreground  uint16        `yaml:"foreground"`
	Background  uint16        `yaml:"background"`
	Origins     OriginsConfig `yaml:"origins"`
}

// PanelConfig selects and configures the display driver.
type PanelConfig struct {
	// Driver is one of memory, fbdev, ili9341.
	Driver        string `yaml:"driver"`
	Device        string `yaml:"device"`
	BacklightPath string `yaml:"backlight_path"`
	SPIPort       string `yaml:"spi_port"`
	SPISpeedHz    int64  `yaml:"spi_speed_hz"`
	DCPin         string `yaml:"dc_pin"`
	ResetPin      string `yaml:"reset_pin"`
	BacklightPin  string `yaml:"backlight_pin"`
}

type TouchConfig struct {
	// Driver is one of none, gpio, evdev.
	Driver string `yaml:"driver"`
	Pin    string `yaml:"pin"`
	Device string `yaml:"device"`
}

type PowerConfig struct {
	WakePin       int    `yaml:"wake_pin"`
	SleepScript   string `yaml:"sleep_script"`
	WiFiPowerSave bool   `yaml:"wifi_power_save"`
}

type FontConfig struct {
	// Path to a glyph table asset; empty uses the built-in ASCII table.
	Path string `yaml:"path"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

// Warning is a non-fatal load or validation message.
type Warning struct {
	Message string
}

package config

import "time"

const (
	DefaultWordURL  = "http://172.30.1.13:8080/word"
	DefaultAudioURL = "http://172.30.1.13:8080/audio.mp3"
)

// Default returns the configuration of the reference device.
func Default() Config {
	return Config{
		Tasks: TasksConfig{
			Timer:     time.Second,
			Main:      50 * time.Millisecond,
			Refresh:   500 * time.Millisecond,
			Audio:     10 * time.Millisecond,
			QueueSize: 16,
		},
		Countdown: CountdownConfig{
			Start:  2 * time.Minute,
			Repeat: 15 * time.Second,
		},
		Word: WordConfig{
			URL:     DefaultWordURL,
			Timeout: 5 * time.Second,
		},
		Audio: AudioConfig{
			URL:    DefaultAudioURL,
			Output: "pulse",
		},
		Display: DisplayConfig{
			Width:       320,
			Height:      240,
			Margin:      20,
			GapX:        1,
			GapY:        5,
			BlitTimeout: time.Second,
			Foreground:  0xFFFF,
			Background:  0x0000,
			Origins: OriginsConfig{
				Word:     Point{X: 10, Y: 10},
				Sentence: Point{X: 10, Y: 60},
				Time:     Point{X: 150, Y: 200},
			},
		},
		Panel: PanelConfig{
			Driver:        "fbdev",
			Device:        "/dev/fb1",
			BacklightPath: "/sys/class/backlight/fb_ili9341/bl_power",
			SPIPort:       "/dev/spidev0.0",
			SPISpeedHz:    40_000_000,
			DCPin:         "GPIO25",
			ResetPin:      "GPIO24",
			BacklightPin:  "GPIO18",
		},
		Touch: TouchConfig{
			Driver: "gpio",
			Pin:    "GPIO8",
			Device: "/dev/input/event0",
		},
		Power: PowerConfig{
			WakePin:       8,
			SleepScript:   "sleep.sh",
			WiFiPowerSave: true,
		},
		Web: WebConfig{
			Listen: ":80",
		},
	}
}

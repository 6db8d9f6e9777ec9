//go:build cgo

package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const otoPoll = 10 * time.Millisecond

// OtoOutput plays through oto. oto allows one context per process, so the
// first stream's format fixes the device clock; later streams must match.
type OtoOutput struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format Info
}

func newOtoOutput() (Output, error) { return &OtoOutput{}, nil }

func (o *OtoOutput) SetFormat(info Info) error {
	if info.Bits != 16 {
		return fmt.Errorf("oto output: %d-bit samples not supported", info.Bits)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx != nil {
		if info != o.format {
			return fmt.Errorf("oto output: device opened at %d Hz/%d ch, stream is %d Hz/%d ch",
				o.format.SampleRate, o.format.Channels, info.SampleRate, info.Channels)
		}
		return nil
	}

	c, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   info.SampleRate,
		ChannelCount: info.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("oto context: %w", err)
	}
	<-ready
	o.ctx = c
	o.format = info
	return nil
}

func (o *OtoOutput) Play(ctx context.Context, pcm io.Reader) error {
	o.mu.Lock()
	c := o.ctx
	o.mu.Unlock()
	if c == nil {
		return fmt.Errorf("oto output: format not set")
	}

	player := c.NewPlayer(pcm)
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(otoPoll)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return player.Err()
}

func (o *OtoOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctx != nil {
		return o.ctx.Suspend()
	}
	return nil
}

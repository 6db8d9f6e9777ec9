package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jfreymuth/pulse"
)

// PulseOutput plays through the PulseAudio (or PipeWire) server.
type PulseOutput struct {
	mu     sync.Mutex
	format Info
}

func (o *PulseOutput) SetFormat(info Info) error {
	if info.Bits != 16 {
		return fmt.Errorf("pulse output: %d-bit samples not supported", info.Bits)
	}
	if info.Channels != 1 && info.Channels != 2 {
		return fmt.Errorf("pulse output: %d channels not supported", info.Channels)
	}
	o.mu.Lock()
	o.format = info
	o.mu.Unlock()
	return nil
}

func (o *PulseOutput) Play(ctx context.Context, pcm io.Reader) error {
	o.mu.Lock()
	format := o.format
	o.mu.Unlock()
	if format.SampleRate <= 0 {
		return errors.New("pulse output: format not set")
	}

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("wordclock"),
		pulse.ClientApplicationIconName("audio-speakers"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	raw := make([]byte, 0, 8192)
	var readErr error
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if ctx.Err() != nil || readErr != nil {
			return 0, pulse.EndOfData
		}
		if cap(raw) < len(buf)*2 {
			raw = make([]byte, 0, len(buf)*2)
		}
		chunk := raw[:len(buf)*2]
		n, err := io.ReadFull(pcm, chunk)
		samples := n / 2
		for i := 0; i < samples; i++ {
			buf[i] = int16(binary.LittleEndian.Uint16(chunk[i*2:]))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				readErr = err
			}
			return samples, pulse.EndOfData
		}
		return samples, nil
	})

	channels := pulse.PlaybackStereo
	if format.Channels == 1 {
		channels = pulse.PlaybackMono
	}
	stream, err := client.NewPlayback(
		reader,
		channels,
		pulse.PlaybackSampleRate(format.SampleRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackMediaName("wordclock pronunciation"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}
	if readErr != nil {
		return readErr
	}
	return ctx.Err()
}

func (o *PulseOutput) Close() error { return nil }

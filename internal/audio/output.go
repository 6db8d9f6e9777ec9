package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const (
	OutputNone  = "none"
	OutputPulse = "pulse"
	OutputOto   = "oto"
)

// NewOutput returns the output named by name.
func NewOutput(name string) (Output, error) {
	switch name {
	case "", OutputNone:
		return &NoopOutput{}, nil
	case OutputPulse:
		return &PulseOutput{}, nil
	case OutputOto:
		return newOtoOutput()
	default:
		return nil, fmt.Errorf("unknown audio output %q", name)
	}
}

// NoopOutput reads and discards PCM.
type NoopOutput struct {
	mu     sync.Mutex
	format Info
	bytes  int64
}

func (o *NoopOutput) SetFormat(info Info) error {
	o.mu.Lock()
	o.format = info
	o.mu.Unlock()
	return nil
}

func (o *NoopOutput) Play(ctx context.Context, pcm io.Reader) error {
	buf := make([]byte, 4096)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := pcm.Read(buf)
		o.mu.Lock()
		o.bytes += int64(n)
		o.mu.Unlock()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (o *NoopOutput) Close() error { return nil }

func (o *NoopOutput) Format() Info {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.format
}

func (o *NoopOutput) Bytes() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bytes
}

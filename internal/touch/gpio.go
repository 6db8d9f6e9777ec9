package touch

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePoll bounds how long WaitForEdge blocks so cancellation is noticed.
const edgePoll = 250 * time.Millisecond

// GPIO watches the controller's active-low interrupt line.
type GPIO struct {
	pin gpio.PinIn
}

func OpenGPIO(name string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("touch pin %q not found", name)
	}
	if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("touch pin %s edge detect: %w", name, err)
	}
	return &GPIO{pin: p}, nil
}

func (g *GPIO) Watch(ctx context.Context, onTouch func()) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if g.pin.WaitForEdge(edgePoll) {
			onTouch()
		}
	}
}

func (g *GPIO) Close() error {
	return g.pin.In(gpio.PullNoChange, gpio.NoEdge)
}

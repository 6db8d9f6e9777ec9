package panel

import (
	"image"
	"sync"
	"sync/atomic"
)

// Memory is an in-process panel. Completion callbacks run on their own
// goroutine, like a transfer-complete interrupt.
type Memory struct {
	width, height int

	mu        sync.RWMutex
	pix       []uint16
	displayOn bool
	backlight bool

	draws atomic.Int64
}

func NewMemory(width, height int) *Memory {
	if width <= 0 {
		width = 320
	}
	if height <= 0 {
		height = 240
	}
	return &Memory{width: width, height: height, pix: make([]uint16, width*height)}
}

func (m *Memory) Size() (int, int) { return m.width, m.height }

func (m *Memory) DrawBitmap(rect image.Rectangle, pix []byte, done func()) error {
	if err := checkBitmap(m.width, m.height, rect, pix); err != nil {
		return err
	}
	m.mu.Lock()
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := m.pix[y*m.width:]
		for x := rect.Min.X; x < rect.Max.X; x++ {
			row[x] = uint16(pix[i])<<8 | uint16(pix[i+1])
			i += 2
		}
	}
	m.mu.Unlock()
	m.draws.Add(1)
	if done != nil {
		go done()
	}
	return nil
}

func (m *Memory) SetDisplayOn(on bool) error {
	m.mu.Lock()
	m.displayOn = on
	m.mu.Unlock()
	return nil
}

func (m *Memory) SetBacklight(on bool) error {
	m.mu.Lock()
	m.backlight = on
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// DisplayOn reports the last SetDisplayOn value.
func (m *Memory) DisplayOn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displayOn
}

func (m *Memory) Backlight() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backlight
}

// Draws counts accepted DrawBitmap calls.
func (m *Memory) Draws() int64 { return m.draws.Load() }

// Pixel returns the raw RGB565 value at (x, y).
func (m *Memory) Pixel(x, y int) uint16 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pix[y*m.width+x]
}

func (m *Memory) Snapshot() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	m.mu.RLock()
	defer m.mu.RUnlock()
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			img.SetRGBA(x, y, RGBA(m.pix[y*m.width+x]))
		}
	}
	return img
}

//go:build linux

package touch

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rook-computer/wordclock/internal/logging"
	"golang.org/x/sys/unix"
)

const defaultEvdevGlob = "/dev/input/event*"

// Evdev reads BTN_TOUCH presses from a Linux input device. When Path is
// empty every /dev/input/event* device is watched.
type Evdev struct {
	Path   string
	Logger logging.Logger
}

func (e *Evdev) Watch(ctx context.Context, onTouch func()) error {
	paths := []string{e.Path}
	if e.Path == "" {
		var err error
		paths, err = filepath.Glob(defaultEvdevGlob)
		if err != nil || len(paths) == 0 {
			return fmt.Errorf("no evdev devices found")
		}
	}

	errCh := make(chan error, len(paths))
	for _, path := range paths {
		p := path
		go func() { errCh <- e.watchOne(ctx, p, onTouch) }()
	}

	var firstErr error
	for range paths {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Evdev) watchOne(ctx context.Context, path string, onTouch func()) error {
	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	eventSize := tvSize + 2 + 2 + 4

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()
	e.logger().Infof("touch", "watching %s", path)

	buf := make([]byte, 64*eventSize)
	for {
		if ctx.Err() != nil {
			return nil
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("poll %s: %w", path, err)
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		for off := 0; off+eventSize <= n; off += eventSize {
			if isTouchDown(buf[off:off+eventSize], tvSize) {
				onTouch()
			}
		}
	}
}

func (e *Evdev) logger() logging.Logger {
	if e.Logger == nil {
		return logging.NoopLogger{}
	}
	return e.Logger
}

func (e *Evdev) Close() error { return nil }

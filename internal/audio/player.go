// Package audio streams the pronunciation clip: HTTP source, MP3 decoder,
// PCM output. The pipeline reports progress as events that the audio
// activity drains with Pump.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/hajimehoshi/go-mp3"
	"github.com/rook-computer/wordclock/internal/logging"
)

type EventKind int

const (
	// MusicInfo is reported once the decoder has read the first frame.
	MusicInfo EventKind = iota
	Stopped
	Finished
	Failed
)

func (k EventKind) String() string {
	switch k {
	case MusicInfo:
		return "music-info"
	case Stopped:
		return "stopped"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Info is the PCM format of a decoded stream.
type Info struct {
	SampleRate int
	Bits       int
	Channels   int
}

type Event struct {
	Kind EventKind
	Info Info
	Err  error

	configured chan struct{}
}

// Stream is decoded PCM: signed 16-bit little-endian, interleaved.
type Stream interface {
	io.Reader
	SampleRate() int
}

// Output plays PCM. SetFormat is called from the pump before Play starts.
type Output interface {
	SetFormat(info Info) error
	Play(ctx context.Context, pcm io.Reader) error
	Close() error
}

// DecodeMP3 is the default decoder. go-mp3 always yields 16-bit stereo.
func DecodeMP3(r io.Reader) (Stream, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3 decoder: %w", err)
	}
	return d, nil
}

const eventQueue = 8

// Player owns at most one running pipeline.
type Player struct {
	Logger logging.Logger
	URL    string
	HTTP   *http.Client
	Output Output

	// Open and Decode replace the HTTP source and MP3 decoder.
	Open   func(ctx context.Context) (io.ReadCloser, error)
	Decode func(r io.Reader) (Stream, error)
	// OnEvent, when set, sees every event Pump handles.
	OnEvent func(Event)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	events chan Event
	runs   int64
}

func NewPlayer(url string, out Output) *Player {
	return &Player{
		Logger: logging.NoopLogger{},
		URL:    url,
		HTTP:   http.DefaultClient,
		Output: out,
		events: make(chan Event, eventQueue),
	}
}

// Run stops the running pipeline, waits for it to finish, and starts a new
// one from the beginning of the stream.
func (p *Player) Run() error {
	if p.Open == nil && p.URL == "" {
		return errors.New("no audio source")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.runs++
	go p.pipeline(ctx, done)
	return nil
}

// Stop ends the running pipeline, if any, and waits for it.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		<-p.done
		p.cancel = nil
	}
}

// Playing reports whether a pipeline is still running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Runs counts Run calls that started a pipeline.
func (p *Player) Runs() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs
}

// Pump handles at most one pending event and never blocks.
func (p *Player) Pump() {
	var ev Event
	select {
	case ev = <-p.events:
	default:
		return
	}

	switch ev.Kind {
	case MusicInfo:
		p.logger().Infof("audio", "music info: rate=%d bits=%d ch=%d", ev.Info.SampleRate, ev.Info.Bits, ev.Info.Channels)
		if p.Output != nil {
			if err := p.Output.SetFormat(ev.Info); err != nil {
				p.logger().Errorf("audio", "set output format: %v", err)
			}
		}
		if ev.configured != nil {
			close(ev.configured)
		}
	case Failed:
		p.logger().Errorf("audio", "pipeline failed: %v", ev.Err)
	default:
		p.logger().Infof("audio", "pipeline %s", ev.Kind)
	}
	if p.OnEvent != nil {
		p.OnEvent(ev)
	}
}

func (p *Player) pipeline(ctx context.Context, done chan struct{}) {
	defer close(done)

	src, err := p.open(ctx)
	if err != nil {
		p.finish(ctx, err)
		return
	}
	defer src.Close()

	decode := p.Decode
	if decode == nil {
		decode = DecodeMP3
	}
	stream, err := decode(src)
	if err != nil {
		p.finish(ctx, err)
		return
	}

	configured := make(chan struct{})
	info := Info{SampleRate: stream.SampleRate(), Bits: 16, Channels: 2}
	select {
	case p.events <- Event{Kind: MusicInfo, Info: info, configured: configured}:
	case <-ctx.Done():
		p.finish(ctx, nil)
		return
	}
	select {
	case <-configured:
	case <-ctx.Done():
		p.finish(ctx, nil)
		return
	}

	if p.Output == nil {
		_, err = io.Copy(io.Discard, stream)
	} else {
		err = p.Output.Play(ctx, stream)
	}
	p.finish(ctx, err)
}

// finish reports the terminal event. It drops the event rather than block
// a Run that is waiting for this pipeline.
func (p *Player) finish(ctx context.Context, err error) {
	ev := Event{Kind: Finished}
	switch {
	case ctx.Err() != nil:
		ev = Event{Kind: Stopped}
	case err != nil:
		ev = Event{Kind: Failed, Err: err}
	}
	select {
	case p.events <- ev:
	default:
	}
}

func (p *Player) open(ctx context.Context) (io.ReadCloser, error) {
	if p.Open != nil {
		return p.Open(ctx)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("audio request: %w", err)
	}
	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("audio stream: %s", resp.Status)
	}
	return resp.Body, nil
}

func (p *Player) logger() logging.Logger {
	if p.Logger == nil {
		return logging.NoopLogger{}
	}
	return p.Logger
}

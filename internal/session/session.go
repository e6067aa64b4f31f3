// Package session runs a Viewer inside a single event loop goroutine.
//
// HTTP handlers, websocket readers, the file watcher and debounce timers
// never touch the viewer directly: they post commands that the loop runs one
// at a time between layout ticks. After every command or tick that changed
// the view, the loop paints a frame and hands the encoded bytes to
// subscribers.
package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ziadkadry99/code-landscape/internal/metrics"
	"github.com/ziadkadry99/code-landscape/internal/viewer"
)

// ErrClosed is returned by Do once the loop has stopped.
var ErrClosed = errors.New("session closed")

// DefaultFrameInterval is the tick period of the loop (about 30 fps).
const DefaultFrameInterval = 33 * time.Millisecond

// Frame is an immutable snapshot published after a change.
type Frame struct {
	Version uint64
	PNG     []byte
	State   viewer.State
}

// Options configures a Session.
type Options struct {
	FrameInterval time.Duration
	// SubscriberBuffer is the channel size of each subscriber.
	SubscriberBuffer int
	Logger           *slog.Logger
}

type command struct {
	name string
	fn   func(*viewer.Viewer) error
	done chan error
}

// Session owns a viewer and its event loop.
type Session struct {
	v      *viewer.Viewer
	opts   Options
	logger *slog.Logger
	cmds   chan command
	quit   chan struct{}

	mu      sync.Mutex
	subs    map[int]chan *Frame
	nextSub int
	latest  *Frame
	running bool
	closed  bool
}

// New wraps v. Call Run to start the loop.
func New(v *viewer.Viewer, opts Options) *Session {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		v:      v,
		opts:   opts,
		logger: logger,
		cmds:   make(chan command),
		quit:   make(chan struct{}),
		subs:   make(map[int]chan *Frame),
	}
}

// Run processes commands and ticks until ctx is cancelled. It closes every
// subscriber channel on return.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("session already running")
	}
	s.running = true
	s.mu.Unlock()

	defer s.shutdown()

	ticker := time.NewTicker(s.opts.FrameInterval)
	defer ticker.Stop()

	published := ^uint64(0)
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-s.cmds:
			err := c.fn(s.v)
			metrics.Command(c.name, err)
			if err != nil {
				s.logger.Debug("command failed", "command", c.name, "error", err)
			}
			c.done <- err
		case <-ticker.C:
			active := s.v.Simulation() != nil && s.v.Simulation().Active()
			s.v.Tick()
			if active {
				metrics.Tick(s.v.Simulation().Alpha())
			}
		}
		if ver := s.v.Version(); ver != published {
			s.publish()
			published = ver
		}
	}
}

func (s *Session) shutdown() {
	close(s.quit)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	metrics.Subscribers(0)
}

// publish paints the frame when someone is listening and always refreshes
// the latest state.
func (s *Session) publish() {
	f := &Frame{Version: s.v.Version(), State: s.v.Snapshot()}
	metrics.Nodes(f.State.TotalNodes, f.State.VisibleNodes)

	s.mu.Lock()
	listeners := len(s.subs)
	s.mu.Unlock()

	if listeners > 0 && s.v.Document() != nil {
		start := time.Now()
		var buf bytes.Buffer
		if err := s.v.EncodePNG(&buf); err != nil {
			s.logger.Error("encoding frame", "error", err)
		} else {
			f.PNG = buf.Bytes()
			metrics.Frame(time.Since(start), buf.Len())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = f
	for _, ch := range s.subs {
		offer(ch, f)
	}
}

// offer delivers f, dropping the oldest queued frame if the subscriber is
// behind.
func offer(ch chan *Frame, f *Frame) {
	for {
		select {
		case ch <- f:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Do runs fn on the loop goroutine and waits for its result. name labels
// the command in metrics and logs.
func (s *Session) Do(ctx context.Context, name string, fn func(*viewer.Viewer) error) error {
	c := command{name: name, fn: fn, done: make(chan error, 1)}
	select {
	case s.cmds <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.quit:
		return ErrClosed
	}
	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post runs fn on the loop without waiting. Errors are logged.
func (s *Session) Post(name string, fn func(*viewer.Viewer) error) {
	go func() {
		if err := s.Do(context.Background(), name, fn); err != nil && !errors.Is(err, ErrClosed) {
			s.logger.Warn("posted command failed", "command", name, "error", err)
		}
	}()
}

// Subscribe returns a channel of frames and a function that cancels the
// subscription. A repaint is scheduled so the subscriber receives a frame
// promptly.
func (s *Session) Subscribe() (<-chan *Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *Frame, s.opts.SubscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	metrics.Subscribers(len(s.subs))

	s.Post("repaint", func(v *viewer.Viewer) error {
		v.Invalidate()
		return nil
	})

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				close(c)
				delete(s.subs, id)
				metrics.Subscribers(len(s.subs))
			}
		})
	}
}

// Latest returns the most recent frame, or nil before the first change.
func (s *Session) Latest() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

package stats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sse"
)

const (
	EventConnected = "connected"
	EventUpdate    = "statistics-update"

	DefaultRetry = 3 * time.Second

	streamOp = "stats.stream"
)

var ErrStreamClosed = errors.New("statistics stream closed by server")

// Streamer opens the statistics event stream. *clients.StatisticsClient
// satisfies it.
type Streamer interface {
	Stream(ctx context.Context, lastEventID string) (io.ReadCloser, error)
}

// Sink receives every decoded update after the update callback.
type Sink interface {
	RecordUpdate(ctx context.Context, u Update) error
}

type FeedObserver interface {
	ObserveFeedEvent(event string)
}

type FeedOption func(*LiveFeed)

func WithFeedLogger(l *slog.Logger) FeedOption {
	return func(f *LiveFeed) {
		if l != nil {
			f.logger = l
		}
	}
}

func WithSinks(sinks ...Sink) FeedOption {
	return func(f *LiveFeed) { f.sinks = append(f.sinks, sinks...) }
}

func WithFeedObserver(o FeedObserver) FeedOption {
	return func(f *LiveFeed) { f.observer = o }
}

// WithRetry sets the reconnect delay used until the server advertises one.
func WithRetry(d time.Duration) FeedOption {
	return func(f *LiveFeed) {
		if d > 0 {
			f.retry = d
		}
	}
}

// LiveFeed keeps at most one subscription to the statistics stream and
// reconnects after failures until Disconnect.
type LiveFeed struct {
	streamer  Streamer
	transform Transformer
	logger    *slog.Logger
	sinks     []Sink
	observer  FeedObserver
	retry     time.Duration
	now       func() time.Time

	// connMu serializes Connect and Disconnect.
	connMu    sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	connected atomic.Bool
}

func NewLiveFeed(s Streamer, t Transformer, opts ...FeedOption) *LiveFeed {
	f := &LiveFeed{
		streamer:  s,
		transform: t,
		logger:    slog.New(slog.DiscardHandler),
		retry:     DefaultRetry,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect replaces any existing subscription with a new one. onUpdate and
// onError may be nil; they run on the feed goroutine and must not call
// Connect or Disconnect.
func (f *LiveFeed) Connect(ctx context.Context, onUpdate func(Update), onError func(error)) {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	f.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	f.cancel, f.done = cancel, done

	go func() {
		defer close(done)
		f.run(ctx, onUpdate, onError)
	}()
}

// Disconnect ends the subscription and waits for the feed goroutine. It is
// safe to call when not connected.
func (f *LiveFeed) Disconnect() {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	f.stopLocked()
}

// Wait blocks until the current subscription ends, for example because the
// context given to Connect was cancelled.
func (f *LiveFeed) Wait() {
	f.connMu.Lock()
	done := f.done
	f.connMu.Unlock()
	if done != nil {
		<-done
	}
}

func (f *LiveFeed) Connected() bool { return f.connected.Load() }

func (f *LiveFeed) stopLocked() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	<-f.done
	f.cancel, f.done = nil, nil
	f.connected.Store(false)
}

func (f *LiveFeed) run(ctx context.Context, onUpdate func(Update), onError func(error)) {
	st := &streamState{retry: f.retry}
	for {
		err := f.session(ctx, st, onUpdate, onError)
		f.connected.Store(false)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			f.logger.WarnContext(ctx, "statistics stream interrupted", "error", err, "retry_in", st.retry)
			if onError != nil {
				onError(err)
			}
		}

		t := time.NewTimer(st.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

type streamState struct {
	retry  time.Duration
	lastID string
}

func (f *LiveFeed) session(ctx context.Context, st *streamState, onUpdate func(Update), onError func(error)) error {
	body, err := f.streamer.Stream(ctx, st.lastID)
	if err != nil {
		return err
	}
	defer body.Close()
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	r := sse.NewReader(body)
	for {
		ev, err := r.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return ErrStreamClosed
			}
			return apierr.Transport(streamOp, err)
		}
		if ev.Retry > 0 {
			st.retry = ev.Retry
		}
		st.lastID = r.LastID()
		if ev.Name == "" {
			continue
		}
		if f.observer != nil {
			f.observer.ObserveFeedEvent(ev.Name)
		}

		switch ev.Name {
		case EventConnected:
			f.connected.Store(true)
			f.logger.InfoContext(ctx, "statistics stream connected")
		case EventUpdate:
			f.connected.Store(true)
			var raw dto.StatisticsUpdate
			if err := json.Unmarshal([]byte(ev.Data), &raw); err != nil {
				perr := apierr.Protocol(streamOp, 0, err)
				f.logger.WarnContext(ctx, "undecodable statistics update", "error", err)
				if onError != nil {
					onError(perr)
				}
				continue
			}
			f.deliver(ctx, f.transform.Update(raw, f.now()), onUpdate)
		default:
			f.logger.DebugContext(ctx, "ignoring stream event", "event", ev.Name)
		}
	}
}

func (f *LiveFeed) deliver(ctx context.Context, u Update, onUpdate func(Update)) {
	if onUpdate != nil {
		onUpdate(u)
	}
	for _, s := range f.sinks {
		if err := s.RecordUpdate(ctx, u); err != nil {
			f.logger.WarnContext(ctx, "statistics sink failed", "sink", sinkName(s), "error", err)
		}
	}
}

func sinkName(s Sink) string {
	if n, ok := s.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "sink"
}

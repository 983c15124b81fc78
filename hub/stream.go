package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Chugyy/agenthub"
	"github.com/Chugyy/agenthub/sse"
)

// Interface compliance check.
var _ agenthub.Stream = (*stream)(nil)

// readBufSize is the per-read chunk size for the response body. SSE frames
// are small; the decoder reassembles frames across read boundaries anyway.
const readBufSize = 4096

// stream implements [agenthub.Stream] over a chunked text/event-stream
// response body. Malformed and unknown frames are logged and dropped; they
// never terminate the stream.
type stream struct {
	body io.ReadCloser
	ctx  context.Context
	log  *slog.Logger

	dec     sse.Decoder
	rbuf    []byte
	pending []sse.Frame
	readErr error // deferred until pending frames are drained

	terminal bool // a terminal event has been returned
	closed   bool
	err      error // sticky Next error

	closeOnce sync.Once
	closeErr  error
}

func newStream(ctx context.Context, body io.ReadCloser, log *slog.Logger) *stream {
	return &stream{
		body: body,
		ctx:  ctx,
		log:  log,
		rbuf: make([]byte, readBufSize),
	}
}

// Next returns the next decoded event in wire order. After a terminal event
// has been returned, Next returns io.EOF without touching the body again.
func (s *stream) Next() (agenthub.Event, error) {
	switch {
	case s.closed:
		return nil, agenthub.ErrStreamClosed
	case s.terminal:
		return nil, io.EOF
	case s.err != nil:
		return nil, s.err
	}

	for {
		for len(s.pending) > 0 {
			f := s.pending[0]
			s.pending = s.pending[1:]

			evt, err := f.Event()
			if err != nil {
				s.logDropped(f, err)
				continue
			}
			if agenthub.Terminal(evt) {
				s.terminal = true
			}
			return evt, nil
		}

		if s.readErr != nil {
			s.err = s.fail(s.readErr)
			return nil, s.err
		}

		n, err := s.body.Read(s.rbuf)
		if n > 0 {
			s.pending = append(s.pending, s.dec.Feed(string(s.rbuf[:n]))...)
		}
		if err != nil {
			// Drain frames completed by this read before reporting.
			s.readErr = err
		}
	}
}

// fail maps a read failure to the stream's terminal error.
func (s *stream) fail(err error) error {
	if errors.Is(err, io.EOF) {
		// The body ended without a terminal frame.
		return fmt.Errorf("hub: %w", agenthub.ErrUnexpectedEnd)
	}
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return fmt.Errorf("hub: %w", ctxErr)
	}
	return fmt.Errorf("hub: %w", err)
}

func (s *stream) logDropped(f sse.Frame, err error) {
	if errors.Is(err, sse.ErrUnknownEvent) {
		s.log.Debug("skipping unknown stream event", slog.String("event", f.EventType))
		return
	}
	s.log.Warn("dropping malformed frame",
		slog.String("event", f.EventType),
		slog.String("err", err.Error()))
}

// Close releases the underlying response body. The release runs exactly once
// no matter how many times Close is called or which exit path got here.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		s.closed = true
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}

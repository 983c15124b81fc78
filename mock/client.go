package mock

import (
	"context"
	"io"
	"sync"

	"github.com/Chugyy/agenthub"
)

// Interface compliance checks.
var (
	_ agenthub.Streamer = (*Client)(nil)
	_ agenthub.Stopper  = (*Client)(nil)
)

// Client is a test double for the hub client used by the session controller.
// OpenStreamFn panics when nil. StopGenerationFn is nil-safe (returns nil)
// because Stop is incidental to most controller tests.
type Client struct {
	OpenStreamFn     func(ctx context.Context, req agenthub.ChatRequest) (agenthub.Stream, error)
	StopGenerationFn func(ctx context.Context, conversationID string) error
}

// OpenStream delegates to OpenStreamFn.
func (c *Client) OpenStream(ctx context.Context, req agenthub.ChatRequest) (agenthub.Stream, error) {
	return c.OpenStreamFn(ctx, req)
}

// StopGeneration delegates to StopGenerationFn. Returns nil when not set.
func (c *Client) StopGeneration(ctx context.Context, conversationID string) error {
	if c.StopGenerationFn == nil {
		return nil
	}
	return c.StopGenerationFn(ctx, conversationID)
}

// Script returns a Stream that yields the given events in order and io.EOF
// afterwards. Close is tracked via the returned counter.
func Script(events ...agenthub.Event) (*Stream, *CloseCount) {
	var mu sync.Mutex
	i := 0
	cc := &CloseCount{}
	s := &Stream{
		NextFn: func() (agenthub.Event, error) {
			mu.Lock()
			defer mu.Unlock()
			if i >= len(events) {
				return nil, io.EOF
			}
			evt := events[i]
			i++
			return evt, nil
		},
		CloseFn: func() error {
			cc.mu.Lock()
			defer cc.mu.Unlock()
			cc.n++
			return nil
		},
	}
	return s, cc
}

// CloseCount counts Close invocations on a scripted stream.
type CloseCount struct {
	mu sync.Mutex
	n  int
}

// Count returns the number of times Close ran.
func (c *CloseCount) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

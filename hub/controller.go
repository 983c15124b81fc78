package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Chugyy/agenthub"
	"github.com/google/uuid"
)

// StreamClient is the slice of [Client] the controller depends on. It is an
// interface so controller behavior is testable against mock streams.
type StreamClient interface {
	agenthub.Streamer
	agenthub.Stopper
}

const (
	// defaultInactivityTimeout bounds how long a session may sit with no
	// frame arriving before it is failed. Transports can stall silently
	// (proxy buffering, half-open TCP) and a chat UI must not hang forever.
	defaultInactivityTimeout = 2 * time.Minute

	// defaultWatchdogInterval is how often the watchdog samples the
	// session's activity window.
	defaultWatchdogInterval = 5 * time.Second
)

// Controller drives one streaming generation end-to-end: it opens the
// stream, dispatches decoded events to the caller's [agenthub.Handler],
// runs the inactivity watchdog, and guarantees the response body is
// released exactly once on every exit path.
//
// At most one session per Controller may be active at a time; callers
// serialize Start through their own UI state.
type Controller struct {
	client   StreamClient
	timeout  time.Duration
	interval time.Duration

	mu             sync.Mutex
	state          agenthub.SessionState
	conversationID string
}

// ControllerOption configures a [Controller].
type ControllerOption func(*Controller)

// WithInactivityTimeout sets how long the session may go without a frame
// before the controller synthesizes a timeout error. The clock is suspended
// while a validation is pending: human approval latency is unbounded and
// must not be conflated with transport failure.
func WithInactivityTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) { c.timeout = d }
}

// WithWatchdogInterval sets the watchdog's sampling cadence.
func WithWatchdogInterval(d time.Duration) ControllerOption {
	return func(c *Controller) { c.interval = d }
}

// NewController creates a Controller on top of a hub client.
func NewController(client StreamClient, opts ...ControllerOption) *Controller {
	c := &Controller{
		client:   client,
		timeout:  defaultInactivityTimeout,
		interval: defaultWatchdogInterval,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a snapshot of the session state.
func (c *Controller) State() agenthub.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConversationID returns the conversation the controller last streamed for.
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// Start runs one streaming session to completion. It returns once the
// session reaches a terminal state; in-band failures (error frames, read
// failures, the inactivity timeout) are reported through h.OnError and
// yield a nil return. Errors opening the stream are returned instead, in
// particular a 409 conflict (wrapping [agenthub.ErrConflict]) so the caller
// can offer cancel-and-retry.
//
// When req.ConversationID is empty a fresh ID is assigned; it remains
// readable through [Controller.ConversationID] for the follow-up Stop.
func (c *Controller) Start(ctx context.Context, req agenthub.ChatRequest, h agenthub.Handler) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	// The derived context is the watchdog's hard abort: cancelling it fails
	// the blocked body read.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.client.OpenStream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	c.mu.Lock()
	c.state = agenthub.SessionState{}
	c.state.Activate(time.Now())
	c.conversationID = req.ConversationID
	c.mu.Unlock()

	defer c.end()

	var timedOut atomic.Bool
	loopDone := make(chan struct{})
	defer close(loopDone)
	go c.watch(ctx, cancel, &timedOut, loopDone)

	for {
		evt, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if timedOut.Load() {
				h.Dispatch(agenthub.EventError{Message: fmt.Sprintf(
					"no response from the server for %s; generation timed out", c.timeout)})
				return nil
			}
			h.Dispatch(agenthub.EventError{Message: err.Error()})
			return nil
		}

		c.transition(evt)
		h.Dispatch(evt)

		if agenthub.Terminal(evt) {
			return nil
		}
	}
}

// Stop asks the hub to end the active generation. It does not abort the
// local read loop: the server closes the stream, which the loop observes as
// a terminal frame or a read failure. Calling Stop with no active session
// is a no-op.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	id := c.conversationID
	active := c.state.Phase == agenthub.PhaseActive
	c.mu.Unlock()

	if !active {
		return nil
	}
	return c.client.StopGeneration(ctx, id)
}

// transition applies one decoded event to the session state machine.
func (c *Controller) transition(evt agenthub.Event) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	switch evt.(type) {
	case agenthub.EventChunk, agenthub.EventSources:
		// Content flowing again also lifts a validation suspension.
		c.state.Resume(now)
	case agenthub.EventToolCallCreated, agenthub.EventToolCallUpdated:
		c.state.Touch(now)
	case agenthub.EventValidationRequired:
		c.state.BeginValidation(now)
	case agenthub.EventStopped, agenthub.EventDone, agenthub.EventError:
		c.state.End()
	}
}

func (c *Controller) end() {
	c.mu.Lock()
	c.state.End()
	c.mu.Unlock()
}

// watch samples the activity window and cancels the request context when
// the session has been idle past the threshold. Sessions suspended on a
// pending validation are never timed out.
func (c *Controller) watch(ctx context.Context, cancel context.CancelFunc, timedOut *atomic.Bool, loopDone <-chan struct{}) {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		select {
		case <-loopDone:
			return
		case <-ctx.Done():
			return
		case now := <-t.C:
			c.mu.Lock()
			expired := c.state.WatchdogEligible() && c.state.IdleFor(now) > c.timeout
			c.mu.Unlock()
			if expired {
				timedOut.Store(true)
				cancel()
				return
			}
		}
	}
}

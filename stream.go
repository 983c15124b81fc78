package agenthub

import "context"

// Stream is a pull-based iterator over decoded stream events.
// Next returns events in the exact order they were framed on the wire and
// io.EOF after a terminal event ([EventDone], [EventStopped], [EventError])
// has been returned. Cancellation flows through the context passed to
// [Streamer.OpenStream]. Close releases the underlying response body; it is
// safe to call more than once and after Next returned io.EOF.
type Stream interface {
	Next() (Event, error)
	Close() error
}

// Streamer opens a streaming generation against the hub.
type Streamer interface {
	OpenStream(ctx context.Context, req ChatRequest) (Stream, error)
}

// Stopper asks the hub to end an in-flight generation. Stopping is
// cooperative: the local read loop terminates when the server closes the
// stream, not when the stop request returns.
type Stopper interface {
	StopGeneration(ctx context.Context, conversationID string) error
}

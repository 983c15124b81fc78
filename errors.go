package agenthub

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates the hub refused to start a stream because a
	// generation is already in progress for the conversation. It is returned
	// from Start/OpenStream rather than dispatched through OnError so the
	// caller can offer cancel-and-retry instead of a terminal failure.
	ErrConflict = errors.New("generation already in progress")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrUnexpectedEnd indicates the stream ended without a terminal frame.
	ErrUnexpectedEnd = errors.New("unexpected end of stream")
)

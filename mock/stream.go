// Package mock provides hand-written test doubles for the agenthub
// streaming interfaces. Set the function fields for the methods a test
// needs; see each type for nil-field behavior.
package mock

import "github.com/Chugyy/agenthub"

// Interface compliance check.
var _ agenthub.Stream = (*Stream)(nil)

// Stream is a test double for agenthub.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe (no-op)
// because test code commonly calls defer stream.Close() without caring about
// its behavior.
type Stream struct {
	NextFn  func() (agenthub.Event, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (agenthub.Event, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

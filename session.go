package agenthub

import "time"

// Phase is the lifecycle phase of a streaming session.
type Phase int

const (
	PhaseIdle   Phase = iota // before the stream is accepted
	PhaseActive              // response accepted, frames flowing
	PhaseEnded               // terminal frame, failure, or stop observed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// SessionState is the explicit state machine for one streaming session.
// It is owned by a single controller and never shared. All transitions are
// named methods so the suspension/timeout interaction stays reviewable.
//
// ValidationPending suspends the inactivity watchdog: a session blocked on a
// human decision may legitimately sit idle for an unbounded time, and that
// must not be conflated with a stalled transport.
type SessionState struct {
	Phase             Phase
	LastActivityAt    time.Time
	ValidationPending bool
}

// Activate marks the session active, starting a fresh activity window.
func (s *SessionState) Activate(now time.Time) {
	s.Phase = PhaseActive
	s.LastActivityAt = now
	s.ValidationPending = false
}

// Touch refreshes the activity window without changing suspension.
func (s *SessionState) Touch(now time.Time) {
	s.LastActivityAt = now
}

// Resume refreshes the activity window and lifts a validation suspension.
// Called when content flows again after a human decision.
func (s *SessionState) Resume(now time.Time) {
	s.LastActivityAt = now
	s.ValidationPending = false
}

// BeginValidation suspends the watchdog while a human decision is pending.
func (s *SessionState) BeginValidation(now time.Time) {
	s.LastActivityAt = now
	s.ValidationPending = true
}

// End marks the session terminal.
func (s *SessionState) End() {
	s.Phase = PhaseEnded
}

// WatchdogEligible reports whether the inactivity watchdog applies.
func (s *SessionState) WatchdogEligible() bool {
	return s.Phase == PhaseActive && !s.ValidationPending
}

// IdleFor returns how long the session has gone without activity.
func (s *SessionState) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivityAt)
}

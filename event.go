// Package agenthub defines the domain vocabulary for the agent-hub chat
// streaming client: typed stream events, the callback surface, the session
// state machine, and the records exposed by the hub's REST API.
package agenthub

// Event is a sealed interface representing a decoded stream event.
// Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventChunk carries an incremental piece of assistant text.
type EventChunk struct {
	Content string
}

func (EventChunk) event() {}

// EventSources carries retrieval citations attached to the in-progress answer.
type EventSources struct {
	Sources []Source
}

func (EventSources) event() {}

// EventValidationRequired signals that a tool call is paused awaiting a
// human approve/reject/feedback decision before generation resumes.
type EventValidationRequired struct {
	ValidationID string
}

func (EventValidationRequired) event() {}

// EventToolCallCreated signals that a persisted tool-call record was created.
// It carries no payload; consumers re-read persisted state.
type EventToolCallCreated struct{}

func (EventToolCallCreated) event() {}

// EventToolCallUpdated signals that a persisted tool-call record changed.
// It carries no payload; consumers re-read persisted state.
type EventToolCallUpdated struct{}

func (EventToolCallUpdated) event() {}

// EventStopped is terminal: the session ended because it was cancelled.
type EventStopped struct{}

func (EventStopped) event() {}

// EventDone is terminal: the session ended successfully.
type EventDone struct{}

func (EventDone) event() {}

// EventError is terminal: the session ended with a server-reported failure.
type EventError struct {
	Message string
}

func (EventError) event() {}

// Source is a retrieval citation for a streamed answer.
// Similarity is a relevance score in [0, 1]; it is not guaranteed to be
// monotonic across the sources of one event.
type Source struct {
	ResourceID   string  `json:"resource_id"`
	ResourceName string  `json:"resource_name"`
	ChunkID      string  `json:"chunk_id"`
	Similarity   float64 `json:"similarity"`
	Content      string  `json:"content"`
}

// Terminal reports whether e ends the session.
func Terminal(e Event) bool {
	switch e.(type) {
	case EventStopped, EventDone, EventError:
		return true
	}
	return false
}

// Interface compliance checks.
var (
	_ Event = EventChunk{}
	_ Event = EventSources{}
	_ Event = EventValidationRequired{}
	_ Event = EventToolCallCreated{}
	_ Event = EventToolCallUpdated{}
	_ Event = EventStopped{}
	_ Event = EventDone{}
	_ Event = EventError{}
)

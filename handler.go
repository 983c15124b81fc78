package agenthub

// Handler is the callback surface for a streaming chat session. Any nil
// callback is skipped during dispatch.
//
// OnRefetchMessages fires for both tool-call creation and update signals:
// the two carry no payload and both mean "re-read persisted state", so the
// distinction is not surfaced. EventStopped dispatches nothing: cancellation
// is a silent success and the caller decides what to show.
type Handler struct {
	OnChunk              func(content string)
	OnSources            func(sources []Source)
	OnValidationRequired func(validationID string)
	OnRefetchMessages    func()
	OnError              func(message string)
	OnDone               func()
}

// Dispatch routes one event to the matching callback.
func (h Handler) Dispatch(e Event) {
	switch evt := e.(type) {
	case EventChunk:
		if h.OnChunk != nil {
			h.OnChunk(evt.Content)
		}
	case EventSources:
		if h.OnSources != nil {
			h.OnSources(evt.Sources)
		}
	case EventValidationRequired:
		if h.OnValidationRequired != nil {
			h.OnValidationRequired(evt.ValidationID)
		}
	case EventToolCallCreated, EventToolCallUpdated:
		if h.OnRefetchMessages != nil {
			h.OnRefetchMessages()
		}
	case EventError:
		if h.OnError != nil {
			h.OnError(evt.Message)
		}
	case EventDone:
		if h.OnDone != nil {
			h.OnDone()
		}
	}
}

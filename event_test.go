package agenthub_test

import (
	"testing"

	"github.com/Chugyy/agenthub"
	"github.com/stretchr/testify/assert"
)

func TestEventChunk_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e agenthub.Event = agenthub.EventChunk{Content: "hello"}
	assert.NotNil(t, e)
}

func TestEventSources_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e agenthub.Event = agenthub.EventSources{Sources: []agenthub.Source{
		{ResourceID: "res_1", ResourceName: "notes.md", ChunkID: "c1", Similarity: 0.92, Content: "..."},
	}}
	assert.NotNil(t, e)
}

func TestEventValidationRequired_ImplementsEvent(t *testing.T) {
	t.Parallel()
	var e agenthub.Event = agenthub.EventValidationRequired{ValidationID: "val_1"}
	assert.NotNil(t, e)
}

func TestEventTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	events := []agenthub.Event{
		agenthub.EventChunk{Content: "hello"},
		agenthub.EventSources{},
		agenthub.EventValidationRequired{ValidationID: "val_1"},
		agenthub.EventToolCallCreated{},
		agenthub.EventToolCallUpdated{},
		agenthub.EventStopped{},
		agenthub.EventDone{},
		agenthub.EventError{Message: "boom"},
	}
	assert.Len(t, events, 8, "update slice and switch when adding new Event types")
	for _, e := range events {
		switch e.(type) {
		case agenthub.EventChunk:
		case agenthub.EventSources:
		case agenthub.EventValidationRequired:
		case agenthub.EventToolCallCreated:
		case agenthub.EventToolCallUpdated:
		case agenthub.EventStopped:
		case agenthub.EventDone:
		case agenthub.EventError:
		default:
			t.Fatalf("unexpected event type: %T", e)
		}
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()
	assert.True(t, agenthub.Terminal(agenthub.EventDone{}))
	assert.True(t, agenthub.Terminal(agenthub.EventStopped{}))
	assert.True(t, agenthub.Terminal(agenthub.EventError{Message: "boom"}))
	assert.False(t, agenthub.Terminal(agenthub.EventChunk{Content: "hi"}))
	assert.False(t, agenthub.Terminal(agenthub.EventValidationRequired{ValidationID: "v"}))
}

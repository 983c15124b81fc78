// Package sse decodes the hub's Server-Sent-Events chat stream: raw text
// chunks in, typed [agenthub.Event] values out.
//
// The package is pure (no I/O, no timers, no logging) so it can be tested
// with literal SSE text fixtures. A [Decoder] instance owns its trailing
// partial-frame buffer; one instance serves exactly one stream.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Chugyy/agenthub"
)

// Decoding failure categories. Both are non-fatal by contract: the caller
// logs the frame and keeps reading.
var (
	// ErrMalformed marks a frame with a missing event/data line, non-JSON
	// data, or a missing required field.
	ErrMalformed = errors.New("malformed frame")

	// ErrUnknownEvent marks a frame whose event type is not recognized.
	// Servers may add event types; clients skip what they don't know.
	ErrUnknownEvent = errors.New("unknown event type")
)

// Frame is one event:/data: unit as it appears on the wire, prior to JSON
// parsing. EventType or Data may be empty when the corresponding line was
// absent; [Frame.Event] rejects such frames.
type Frame struct {
	EventType string
	Data      string
}

// Decoder turns an append-only sequence of text chunks into complete frames,
// tolerating arbitrary chunk boundaries. The zero value is ready to use.
type Decoder struct {
	buf string

	// Fields of the frame currently being assembled.
	eventType string
	data      strings.Builder
	hasField  bool
}

// Feed appends chunk to the internal buffer and returns all frames completed
// by it, in wire order. The trailing incomplete fragment is retained for the
// next call; no input is ever lost at a chunk boundary. Blocks containing
// only comments or unrecognized fields are skipped.
func (d *Decoder) Feed(chunk string) []Frame {
	d.buf += chunk

	var frames []Frame
	for {
		i := strings.IndexByte(d.buf, '\n')
		if i < 0 {
			return frames
		}
		line := strings.TrimSuffix(d.buf[:i], "\r")
		d.buf = d.buf[i+1:]

		if line == "" {
			// Blank line ends the frame.
			if d.hasField {
				frames = append(frames, Frame{EventType: d.eventType, Data: d.data.String()})
			}
			d.eventType = ""
			d.data.Reset()
			d.hasField = false
			continue
		}

		d.applyLine(line)
	}
}

// applyLine folds a single field line into the frame being assembled.
func (d *Decoder) applyLine(line string) {
	if strings.HasPrefix(line, ":") {
		// Comment / keepalive.
		return
	}
	if v, ok := strings.CutPrefix(line, "event:"); ok {
		d.eventType = strings.TrimPrefix(v, " ")
		d.hasField = true
		return
	}
	if v, ok := strings.CutPrefix(line, "data:"); ok {
		if d.data.Len() > 0 {
			d.data.WriteByte('\n')
		}
		d.data.WriteString(strings.TrimPrefix(v, " "))
		d.hasField = true
		return
	}
	// Unknown field (id:, retry:, ...) is ignored.
}

// Event maps a frame to its typed event per the wire protocol:
//
//	chunk               {content}        -> EventChunk
//	sources             {sources}        -> EventSources
//	validation_required {validation_id}  -> EventValidationRequired
//	tool_call_created   -                -> EventToolCallCreated
//	tool_call_updated   -                -> EventToolCallUpdated
//	stopped             -                -> EventStopped
//	done                -                -> EventDone
//	error               {message}        -> EventError
//
// Frames missing a line, carrying non-JSON data, or missing a required field
// return an error wrapping [ErrMalformed]; unrecognized event types return an
// error wrapping [ErrUnknownEvent]. Neither terminates the stream.
func (f Frame) Event() (agenthub.Event, error) {
	if f.EventType == "" {
		return nil, fmt.Errorf("%w: missing event line", ErrMalformed)
	}
	if !json.Valid([]byte(f.Data)) {
		return nil, fmt.Errorf("%w: %s data is not valid JSON", ErrMalformed, f.EventType)
	}

	switch f.EventType {
	case "chunk":
		var p struct {
			Content *string `json:"content"`
		}
		if err := json.Unmarshal([]byte(f.Data), &p); err != nil {
			return nil, fmt.Errorf("%w: chunk: %v", ErrMalformed, err)
		}
		if p.Content == nil {
			return nil, fmt.Errorf("%w: chunk missing content", ErrMalformed)
		}
		return agenthub.EventChunk{Content: *p.Content}, nil

	case "sources":
		var p struct {
			Sources []agenthub.Source `json:"sources"`
		}
		if err := json.Unmarshal([]byte(f.Data), &p); err != nil {
			return nil, fmt.Errorf("%w: sources: %v", ErrMalformed, err)
		}
		if p.Sources == nil {
			return nil, fmt.Errorf("%w: sources missing sources", ErrMalformed)
		}
		return agenthub.EventSources{Sources: p.Sources}, nil

	case "validation_required":
		var p struct {
			ValidationID *string `json:"validation_id"`
		}
		if err := json.Unmarshal([]byte(f.Data), &p); err != nil {
			return nil, fmt.Errorf("%w: validation_required: %v", ErrMalformed, err)
		}
		if p.ValidationID == nil {
			return nil, fmt.Errorf("%w: validation_required missing validation_id", ErrMalformed)
		}
		return agenthub.EventValidationRequired{ValidationID: *p.ValidationID}, nil

	case "tool_call_created":
		return agenthub.EventToolCallCreated{}, nil

	case "tool_call_updated":
		return agenthub.EventToolCallUpdated{}, nil

	case "stopped":
		return agenthub.EventStopped{}, nil

	case "done":
		return agenthub.EventDone{}, nil

	case "error":
		var p struct {
			Message *string `json:"message"`
		}
		if err := json.Unmarshal([]byte(f.Data), &p); err != nil {
			return nil, fmt.Errorf("%w: error: %v", ErrMalformed, err)
		}
		if p.Message == nil {
			return nil, fmt.Errorf("%w: error missing message", ErrMalformed)
		}
		return agenthub.EventError{Message: *p.Message}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, f.EventType)
	}
}

package agenthub

import "fmt"

// ChatRequest carries the payload that starts one streaming generation.
// Optional fields fall back to the hub's defaults when empty.
type ChatRequest struct {
	// ConversationID identifies the conversation the message belongs to.
	// Empty means the controller assigns a fresh one.
	ConversationID string
	Message        string
	Model          string // empty = hub default
	AgentID        string // empty = no agent
	APIKeyID       string // empty = hub default key
}

// Validate checks universal constraints on ChatRequest.
func (r ChatRequest) Validate() error {
	if r.Message == "" {
		return fmt.Errorf("message must not be empty: %w", ErrValidation)
	}
	return nil
}

// Package hub implements the HTTP client for the agent-hub backend: the
// streaming chat endpoint consumed through [agenthub.Stream], the session
// [Controller] that drives one generation end-to-end, and the REST resources
// the dashboard exposes (agents, RAG resources, MCP servers, automations,
// validations, messages).
package hub

import "github.com/Chugyy/agenthub"

const (
	chatStreamPath  = "/api/chat/stream"
	chatStopPath    = "/api/chat/stop"
	agentsPath      = "/api/agents"
	resourcesPath   = "/api/resources"
	mcpServersPath  = "/api/mcp/servers"
	automationsPath = "/api/automations"
	validationsPath = "/api/validations"
)

// chatStreamRequest is the JSON body that starts a generation.
type chatStreamRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
	Model          string `json:"model,omitempty"`
	AgentID        string `json:"agent_id,omitempty"`
	APIKeyID       string `json:"api_key_id,omitempty"`
}

// chatStopRequest asks the hub to end an in-flight generation.
type chatStopRequest struct {
	ConversationID string `json:"conversation_id"`
}

// validationDecisionRequest applies a human decision to a validation.
type validationDecisionRequest struct {
	Decision agenthub.ValidationDecision `json:"decision"`
	Feedback string                      `json:"feedback,omitempty"`
}

// automationToggleRequest enables or disables an automation.
type automationToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// apiErrorResponse is the JSON body returned on non-2xx HTTP responses.
type apiErrorResponse struct {
	Error string `json:"error"`
}

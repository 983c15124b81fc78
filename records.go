package agenthub

import "time"

// Records returned by the hub's REST endpoints. These are conventional
// persistence-backed entities; the client consumes them as-is.

// AgentInfo describes a configured agent.
type AgentInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Model        string    `json:"model,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Resource is a RAG document registered with the hub.
type Resource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type,omitempty"`
	SizeBytes int64     `json:"size_bytes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MCPServer describes a registered MCP tool server.
type MCPServer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// Automation is a scheduled or triggered agent run.
type Automation struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AgentID  string `json:"agent_id"`
	Schedule string `json:"schedule,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// ChatMessage is a persisted conversation message. Tool-call records show up
// here after an OnRefetchMessages signal; the stream itself carries no
// message payloads besides assistant text.
type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	ToolName       string    `json:"tool_name,omitempty"`
	ToolStatus     string    `json:"tool_status,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validation is a pending or decided human-in-the-loop approval for a tool
// call. A stream that emitted [EventValidationRequired] resumes once the
// matching validation is decided.
type Validation struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	ToolName       string    `json:"tool_name"`
	ToolArgs       string    `json:"tool_args,omitempty"`
	Status         string    `json:"status"` // pending, approved, rejected
	CreatedAt      time.Time `json:"created_at"`
}

// ValidationDecision is the human decision applied to a [Validation].
type ValidationDecision string

const (
	DecisionApprove  ValidationDecision = "approve"
	DecisionReject   ValidationDecision = "reject"
	DecisionFeedback ValidationDecision = "feedback"
)

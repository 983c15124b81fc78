package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/Chugyy/agenthub"
)

// Interface compliance checks.
var (
	_ agenthub.Streamer = (*Client)(nil)
	_ agenthub.Stopper  = (*Client)(nil)
)

// Client talks to the agent-hub backend. One Client may serve any number of
// concurrent streams; each call to [Client.OpenStream] returns an
// independently owned [agenthub.Stream].
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the slog logger used for dropped frames and stop
// acknowledgements. Logs are discarded when not set.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a hub [Client] for the given base URL and API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OpenStream starts a streaming generation and returns the event stream.
// A 409 from the hub means a generation is already running for the
// conversation; the returned error wraps [agenthub.ErrConflict] so callers
// can offer cancel-and-retry instead of reporting a terminal failure.
func (c *Client) OpenStream(ctx context.Context, req agenthub.ChatRequest) (agenthub.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}

	body, err := json.Marshal(chatStreamRequest{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		Model:          req.Model,
		AgentID:        req.AgentID,
		APIKeyID:       req.APIKeyID,
	})
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatStreamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}

	if resp.StatusCode == http.StatusConflict {
		defer resp.Body.Close()
		return nil, fmt.Errorf("hub: conversation %s: %w", req.ConversationID, agenthub.ErrConflict)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newStream(ctx, resp.Body, c.log), nil
}

// StopGeneration asks the hub to end the generation for a conversation.
// The acknowledgement is best-effort: a non-2xx status is logged and treated
// as success, since the session may already have ended on its own. Only
// transport failures are returned.
func (c *Client) StopGeneration(ctx context.Context, conversationID string) error {
	body, err := json.Marshal(chatStopRequest{ConversationID: conversationID})
	if err != nil {
		return fmt.Errorf("hub: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatStopPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		c.log.Debug("stop acknowledged with non-success status",
			slog.String("conversation_id", conversationID),
			slog.Int("status", resp.StatusCode))
	}
	return nil
}

// ListAgents returns the configured agents.
func (c *Client) ListAgents(ctx context.Context) ([]agenthub.AgentInfo, error) {
	var out []agenthub.AgentInfo
	return out, c.getJSON(ctx, agentsPath, &out)
}

// ListMCPServers returns the registered MCP tool servers.
func (c *Client) ListMCPServers(ctx context.Context) ([]agenthub.MCPServer, error) {
	var out []agenthub.MCPServer
	return out, c.getJSON(ctx, mcpServersPath, &out)
}

// ListAutomations returns the configured automations.
func (c *Client) ListAutomations(ctx context.Context) ([]agenthub.Automation, error) {
	var out []agenthub.Automation
	return out, c.getJSON(ctx, automationsPath, &out)
}

// ToggleAutomation enables or disables an automation.
func (c *Client) ToggleAutomation(ctx context.Context, id string, enabled bool) error {
	return c.sendJSON(ctx, http.MethodPatch, path.Join(automationsPath, id), automationToggleRequest{Enabled: enabled}, nil)
}

// ListValidations returns pending and decided validations.
func (c *Client) ListValidations(ctx context.Context) ([]agenthub.Validation, error) {
	var out []agenthub.Validation
	return out, c.getJSON(ctx, validationsPath, &out)
}

// DecideValidation applies a human decision to a pending validation. A
// stream paused on the matching validation resumes once the hub records the
// decision. Feedback is only meaningful with [agenthub.DecisionFeedback].
func (c *Client) DecideValidation(ctx context.Context, id string, decision agenthub.ValidationDecision, feedback string) error {
	return c.sendJSON(ctx, http.MethodPost, path.Join(validationsPath, id, "decide"),
		validationDecisionRequest{Decision: decision, Feedback: feedback}, nil)
}

// ListMessages returns the persisted messages of a conversation. This is the
// re-sync target of the OnRefetchMessages callback: tool-call records appear
// here, not on the stream.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]agenthub.ChatMessage, error) {
	var out []agenthub.ChatMessage
	return out, c.getJSON(ctx, path.Join("/api/conversations", conversationID, "messages"), &out)
}

// ListResources returns the registered RAG resources.
func (c *Client) ListResources(ctx context.Context) ([]agenthub.Resource, error) {
	var out []agenthub.Resource
	return out, c.getJSON(ctx, resourcesPath, &out)
}

// UploadResource registers a RAG resource from r under the given name.
func (c *Client) UploadResource(ctx context.Context, name string, r io.Reader) (agenthub.Resource, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return agenthub.Resource{}, fmt.Errorf("hub: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return agenthub.Resource{}, fmt.Errorf("hub: %w", err)
	}
	if err := mw.Close(); err != nil {
		return agenthub.Resource{}, fmt.Errorf("hub: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+resourcesPath, &body)
	if err != nil {
		return agenthub.Resource{}, fmt.Errorf("hub: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return agenthub.Resource{}, fmt.Errorf("hub: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return agenthub.Resource{}, parseHTTPError(resp)
	}

	var out agenthub.Resource
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return agenthub.Resource{}, fmt.Errorf("hub: %w", err)
	}
	return out, nil
}

// DeleteResource removes a RAG resource.
func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, path.Join(resourcesPath, id), nil, nil)
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) getJSON(ctx context.Context, p string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, p, nil, out)
}

// sendJSON issues one JSON request. in and out may be nil.
func (c *Client) sendJSON(ctx context.Context, method, p string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("hub: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, body)
	if err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	c.authorize(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return parseHTTPError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hub: %w", err)
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("hub: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
		return fmt.Errorf("hub: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("hub: HTTP %d: %s", resp.StatusCode, apiErr.Error)
}

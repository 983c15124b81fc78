// Package history persists lightweight local state between runs of the chat
// client. Conversations live on the server; the only thing kept here is
// which one was last active, so it can be resumed by name.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultPath is the state file used when no path is given.
const DefaultPath = ".agenthub/history.json"

// envelope is the v1 wire format for persisted state.
type envelope struct {
	Version        int       `json:"version"`
	ConversationID string    `json:"conversation_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Save records the last active conversation ID, creating parent directories
// as needed. The write is atomic: a temp file is renamed over the target.
func Save(path, conversationID string) error {
	env := envelope{
		Version:        1,
		ConversationID: conversationID,
		UpdatedAt:      time.Now(),
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load returns the last active conversation ID. A missing file is not an
// error; it returns the empty string.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	if env.Version != 1 {
		return "", fmt.Errorf("unsupported history version %d", env.Version)
	}
	return env.ConversationID, nil
}

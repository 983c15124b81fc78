// Package tui provides a Bubble Tea chat TUI for the agenthub client.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chugyy/agenthub"
)

// ChatFunc runs one generation turn for the given user message. The onEvent
// callback is called for each streaming event. The function blocks until the
// turn completes or the context is cancelled.
type ChatFunc func(ctx context.Context, message string, onEvent func(agenthub.Event)) error

// DecideFunc resolves a pending validation.
type DecideFunc func(ctx context.Context, validationID string, decision agenthub.ValidationDecision) error

// StopFunc asks the server to interrupt the active generation.
type StopFunc func(ctx context.Context) error

// Hooks connects the model to the streaming backend.
type Hooks struct {
	Chat   ChatFunc
	Decide DecideFunc
	Stop   StopFunc
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event agenthub.Event
}

// SessionDoneMsg signals that the generation turn has completed.
type SessionDoneMsg struct {
	Err error
}

// DecisionMsg reports the outcome of a validation decision request.
type DecisionMsg struct {
	ValidationID string
	Decision     agenthub.ValidationDecision
	Err          error
}

package tui_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Chugyy/agenthub"
	"github.com/Chugyy/agenthub/tui"
)

// nopChat is a chat hook that does nothing.
func nopChat(_ context.Context, _ string, _ func(agenthub.Event)) error {
	return nil
}

func nopHooks() tui.Hooks {
	return tui.Hooks{Chat: nopChat}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, hooks tui.Hooks) tui.Model {
	t.Helper()
	return initModelWithSize(t, hooks, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, hooks tui.Hooks, width, height int) tui.Model {
	t.Helper()
	m := tui.New(hooks, agenthub.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(tui.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m tui.Model, msg tea.Msg) tui.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(tui.Model)
	require.True(t, ok)
	return model
}

// typeInputString types s into the model's input, one rune at a time.
func typeInputString(t *testing.T, m tui.Model, s string) tui.Model {
	t.Helper()
	for _, r := range s {
		m.Input, _ = m.Input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

package tui_test

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chugyy/agenthub"
	"github.com/Chugyy/agenthub/tui"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := tui.New(nopHooks(), agenthub.DefaultTheme())

	assert.False(t, m.Running())
	assert.NoError(t, m.Err())
	assert.False(t, m.AwaitingDecision())
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := tui.New(nopHooks(), agenthub.DefaultTheme())
		updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		model, ok := updated.(tui.Model)
		require.True(t, ok)

		view := model.View()
		assert.NotEmpty(t, view)
	})

	t.Run("window size resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - 1 - 1 - 2 = 20

		updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
		model, ok := updated.(tui.Model)
		require.True(t, ok)

		assert.Equal(t, 120, model.Viewport.Width)
		assert.Equal(t, 36, model.Viewport.Height)
	})

	t.Run("ctrl+c when idle quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		msg := cmd()
		_, isQuit := msg.(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(tui.Model)

		assert.False(t, model.Running())
		assert.Nil(t, cmd)
	})

	t.Run("chunk event updates output", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventChunk{Content: "hello"}})

		assert.Contains(t, m.View(), "hello")
	})

	t.Run("chunks append to the same block", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventChunk{Content: "hello "}})
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventChunk{Content: "world"}})

		assert.Contains(t, m.View(), "hello world")
	})

	t.Run("chunk after tool call starts a new block", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventChunk{Content: "before"}})
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventToolCallCreated{}})
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventChunk{Content: "after"}})

		view := m.View()
		assert.Contains(t, view, "before")
		assert.Contains(t, view, "after")
		assert.NotContains(t, view, "beforeafter")
	})

	t.Run("sources event shows citation count", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventSources{Sources: []agenthub.Source{
			{ResourceName: "guide.pdf"},
			{ResourceName: "notes.md"},
		}}})

		assert.Contains(t, m.View(), "Sources (2)")
	})

	t.Run("tab expands focused sources block when idle", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventSources{Sources: []agenthub.Source{
			{ResourceName: "guide.pdf", Content: "chapter one"},
		}}})
		m = updateModel(t, m, tui.SessionDoneMsg{})
		require.False(t, m.Running())

		assert.NotContains(t, m.View(), "chapter one")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Contains(t, m.View(), "chapter one")
	})

	t.Run("validation event shows approval prompt", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventValidationRequired{ValidationID: "val_1"}})

		assert.True(t, m.AwaitingDecision())
		assert.Contains(t, m.View(), "Approval required")
	})

	t.Run("a key approves pending validation", func(t *testing.T) {
		t.Parallel()

		var gotID string
		var gotDecision agenthub.ValidationDecision
		hooks := tui.Hooks{
			Chat: nopChat,
			Decide: func(_ context.Context, id string, d agenthub.ValidationDecision) error {
				gotID = id
				gotDecision = d
				return nil
			},
		}

		m := initModel(t, hooks)
		m, _ = tui.SetRunning(m)
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventValidationRequired{ValidationID: "val_1"}})

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
		m = updated.(tui.Model)
		require.NotNil(t, cmd)

		msg := cmd()
		decision, ok := msg.(tui.DecisionMsg)
		require.True(t, ok)
		assert.Equal(t, "val_1", gotID)
		assert.Equal(t, agenthub.DecisionApprove, gotDecision)

		m = updateModel(t, m, decision)
		assert.False(t, m.AwaitingDecision())
		assert.Contains(t, m.View(), "approved")
	})

	t.Run("r key rejects pending validation", func(t *testing.T) {
		t.Parallel()

		var gotDecision agenthub.ValidationDecision
		hooks := tui.Hooks{
			Chat: nopChat,
			Decide: func(_ context.Context, _ string, d agenthub.ValidationDecision) error {
				gotDecision = d
				return nil
			},
		}

		m := initModel(t, hooks)
		m, _ = tui.SetRunning(m)
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventValidationRequired{ValidationID: "val_2"}})

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		require.NotNil(t, cmd)
		cmd()

		assert.Equal(t, agenthub.DecisionReject, gotDecision)
	})

	t.Run("failed decision surfaces error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventValidationRequired{ValidationID: "val_3"}})

		m = updateModel(t, m, tui.DecisionMsg{ValidationID: "val_3", Err: assert.AnError})

		assert.Error(t, m.Err())
		assert.True(t, m.AwaitingDecision())
	})

	t.Run("error event renders error block", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventError{Message: "model unavailable"}})

		assert.Contains(t, m.View(), "model unavailable")
	})

	t.Run("session done re-enables input", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)
		require.True(t, m.Running())

		updated, _ := m.Update(tui.SessionDoneMsg{})
		model := updated.(tui.Model)

		assert.False(t, model.Running())
	})

	t.Run("session done with error shows error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)

		updated, _ := m.Update(tui.SessionDoneMsg{Err: assert.AnError})
		model := updated.(tui.Model)

		assert.False(t, model.Running())
		assert.Error(t, model.Err())
		assert.Contains(t, model.View(), "Error")
	})

	t.Run("session done with context canceled is not an error", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)

		updated, _ := m.Update(tui.SessionDoneMsg{Err: context.Canceled})
		model := updated.(tui.Model)

		assert.False(t, model.Running())
		assert.NoError(t, model.Err())
	})

	t.Run("submit after error clears error and starts new run", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)
		m = updateModel(t, m, tui.SessionDoneMsg{Err: assert.AnError})
		require.Error(t, m.Err())

		m = typeInputString(t, m, "retry")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.True(t, m.Running())
		assert.NoError(t, m.Err())
		assert.Contains(t, m.View(), "retry")
	})

	t.Run("enter during run is ignored", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m, _ = tui.SetRunning(m)

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model := updated.(tui.Model)

		assert.True(t, model.Running())
		assert.Nil(t, cmd)
	})

	t.Run("ctrl+c during run cancels operation", func(t *testing.T) {
		t.Parallel()

		var cancelCalled bool
		m := initModel(t, nopHooks())
		m, _ = tui.SetRunningWithCancel(m, func() { cancelCalled = true })

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		model := updated.(tui.Model)

		assert.True(t, cancelCalled)
		assert.Nil(t, cmd)
		assert.True(t, model.Running())
	})

	t.Run("esc during run invokes stop hook", func(t *testing.T) {
		t.Parallel()

		var stopped atomic.Bool
		hooks := tui.Hooks{
			Chat: nopChat,
			Stop: func(context.Context) error {
				stopped.Store(true)
				return nil
			},
		}

		m := initModel(t, hooks)
		m, _ = tui.SetRunning(m)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)
		cmd()

		assert.True(t, stopped.Load())
	})

	t.Run("esc when idle does nothing", func(t *testing.T) {
		t.Parallel()

		var stopped atomic.Bool
		hooks := tui.Hooks{
			Chat: nopChat,
			Stop: func(context.Context) error {
				stopped.Store(true)
				return nil
			},
		}

		m := initModel(t, hooks)
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

		assert.Nil(t, cmd)
		assert.False(t, stopped.Load())
	})
}

func TestModel_Integration(t *testing.T) {
	t.Parallel()

	t.Run("submit shows user message and returns cmd", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, nopHooks())
		m = typeInputString(t, m, "hi")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(tui.Model)

		assert.True(t, m.Running())
		require.NotNil(t, cmd)
		assert.Contains(t, m.View(), "hi")
	})

	t.Run("long lines are word-wrapped to viewport width", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, nopHooks(), 30, 20)

		longLine := "short words that keep going and going beyond the viewport width easily"
		m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventChunk{Content: longLine}})

		view := m.View()
		assert.Contains(t, view, "easily")
	})

	t.Run("viewport scrolls long output", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, nopHooks(), 80, 8)

		for range 50 {
			m = updateModel(t, m, tui.StreamEventMsg{Event: agenthub.EventChunk{Content: "line\n\n"}})
		}

		view := m.View()
		assert.NotEmpty(t, view)
		lines := strings.Split(view, "\n")
		assert.Less(t, len(lines), 50)
	})
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full generation cycle with event delivery", func(t *testing.T) {
		t.Parallel()

		chat := func(_ context.Context, _ string, onEvent func(agenthub.Event)) error {
			onEvent(agenthub.EventChunk{Content: "Hello!"})
			onEvent(agenthub.EventDone{})
			return nil
		}

		m := tui.New(tui.Hooks{Chat: chat}, agenthub.DefaultTheme())

		tm := teatest.NewTestModel(t, m,
			teatest.WithInitialTermSize(80, 24),
		)

		tm.Type("hi")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Hello!")) &&
				bytes.Contains(out, []byte("Enter to send"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

		fm := tm.FinalModel(t, teatest.WithFinalTimeout(5*time.Second))
		final, ok := fm.(tui.Model)
		require.True(t, ok)
		assert.False(t, final.Running())
		assert.NoError(t, final.Err())
	})
}

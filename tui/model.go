package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chugyy/agenthub"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the agenthub chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	hooks  Hooks
	theme  agenthub.Theme
	styles Styles

	blocks     []MessageBlock
	blockFocus int // index of focused collapsible block (-1 = none)

	// activeText receives chunk events for the current reply segment. It is
	// reset when a tool call interleaves so the next chunk opens a fresh
	// block rather than gluing post-tool text onto the pre-tool reply.
	activeText *AssistantTextBlock

	// pendingValidation is the validation awaiting an a/r decision, nil when
	// none. The server holds the stream open while it is set.
	pendingValidation *ValidationBlock

	toolActive bool

	running bool
	cancel  context.CancelFunc
	eventCh chan agenthub.Event
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a new TUI Model with the given backend hooks and theme.
func New(hooks Hooks, theme agenthub.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:      ti,
		hooks:      hooks,
		theme:      theme,
		styles:     NewStyles(theme),
		blockFocus: -1,
	}
}

// Running returns whether a generation turn is currently active.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// AwaitingDecision reports whether a validation is pending.
func (m Model) AwaitingDecision() bool { return m.pendingValidation != nil }

// SetRunning is a test helper that puts the model in a running state.
func SetRunning(m Model) (Model, tea.Cmd) {
	m.running = true
	return m, nil
}

// SetRunningWithCancel is a test helper that puts the model in a running state
// with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case DecisionMsg:
		m = m.applyDecision(msg)
		return m, nil

	case SessionDoneMsg:
		m.running = false
		m.cancel = nil
		m.eventCh = nil
		m.doneCh = nil
		m.activeText = nil
		m.pendingValidation = nil
		m.toolActive = false
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m = m.updateBlockFocus()
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components.
	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	// Output area.
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	// Status line.
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	// Input area.
	b.WriteString(m.Input.View())

	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight

	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.running && m.hooks.Stop != nil {
			stop := m.hooks.Stop
			return m, func() tea.Msg {
				// Best effort. The stream delivers a stopped event when the
				// server acknowledges the interruption.
				_ = stop(context.Background())
				return nil
			}
		}
		return m, nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
			m.Viewport.SetContent(m.renderContent())
		}
		return m, nil

	case tea.KeyRunes:
		if m.running && m.pendingValidation != nil && len(msg.Runes) == 1 {
			switch msg.Runes[0] {
			case 'a':
				return m.decideValidation(agenthub.DecisionApprove)
			case 'r':
				return m.decideValidation(agenthub.DecisionReject)
			}
		}
	}

	// When idle, pass keys to both input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles))
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	// Reset per-turn state.
	m.activeText = nil
	m.pendingValidation = nil
	m.toolActive = false

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan agenthub.Event, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startSession(m.hooks.Chat, ctx, text, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// processEvent routes a streaming event to the appropriate block.
func (m Model) processEvent(evt agenthub.Event) Model {
	switch e := evt.(type) {
	case agenthub.EventChunk:
		if m.toolActive {
			m.activeText = nil
			m.toolActive = false
		}
		if m.activeText == nil {
			b := NewAssistantTextBlock(m.theme)
			m.blocks = append(m.blocks, b)
			m.activeText = b
		}
		m.activeText.Append(e.Content)

	case agenthub.EventSources:
		m.blocks = append(m.blocks, NewSourcesBlock(e.Sources, m.styles))
		m = m.updateBlockFocus()

	case agenthub.EventValidationRequired:
		b := NewValidationBlock(e.ValidationID, m.styles)
		m.blocks = append(m.blocks, b)
		m.pendingValidation = b

	case agenthub.EventToolCallCreated, agenthub.EventToolCallUpdated:
		m.toolActive = true

	case agenthub.EventError:
		m.blocks = append(m.blocks, NewErrorBlock(e.Message, m.styles))
	}
	return m
}

func (m Model) decideValidation(decision agenthub.ValidationDecision) (tea.Model, tea.Cmd) {
	b := m.pendingValidation
	decide := m.hooks.Decide
	return m, func() tea.Msg {
		var err error
		if decide != nil {
			err = decide(context.Background(), b.ID(), decision)
		}
		return DecisionMsg{ValidationID: b.ID(), Decision: decision, Err: err}
	}
}

func (m Model) applyDecision(msg DecisionMsg) Model {
	if msg.Err != nil {
		m.err = msg.Err
		return m
	}
	if m.pendingValidation != nil && m.pendingValidation.ID() == msg.ValidationID {
		m.pendingValidation.Resolve(msg.Decision)
		m.pendingValidation = nil
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
	}
	return m
}

// updateBlockFocus scans backwards to find the last collapsible block.
// Only the focused block responds to Tab. ShiftTab cycles to the previous
// collapsible block.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if _, ok := m.blocks[i].(*SourcesBlock); ok {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous collapsible block, wrapping around.
func (m Model) cycleFocusPrev() Model {
	if len(m.blocks) == 0 {
		return m
	}
	start := m.blockFocus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		if _, ok := m.blocks[idx].(*SourcesBlock); ok {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render("Error: " + m.err.Error())
	}
	if m.pendingValidation != nil {
		return m.styles.Validation.Render("Approval required: a approve, r reject")
	}
	if m.running {
		if m.toolActive {
			return m.styles.Muted.Render("Running tools... Esc to stop")
		}
		return m.styles.Muted.Render("Generating... Esc to stop")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

// startSession runs one generation turn in a goroutine and signals completion.
func startSession(chat ChatFunc, ctx context.Context, text string, eventCh chan<- agenthub.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		var err error
		if chat != nil {
			err = chat(ctx, text, func(e agenthub.Event) {
				select {
				case eventCh <- e:
				case <-ctx.Done():
				}
			})
		}
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it reads the error from doneCh and returns SessionDoneMsg.
func listenForEvent(ch <-chan agenthub.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			err := <-doneCh
			return SessionDoneMsg{Err: err}
		}
		return StreamEventMsg{Event: evt}
	}
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chugyy/agenthub"
)

var _ MessageBlock = (*ValidationBlock)(nil)

// ValidationBlock renders a pending tool validation request and its outcome.
type ValidationBlock struct {
	id       string
	decision agenthub.ValidationDecision // empty while pending
	styles   Styles
}

// NewValidationBlock creates a pending ValidationBlock.
func NewValidationBlock(id string, styles Styles) *ValidationBlock {
	return &ValidationBlock{id: id, styles: styles}
}

// ID returns the validation ID for decision correlation.
func (b *ValidationBlock) ID() string { return b.id }

// Pending reports whether the validation still awaits a decision.
func (b *ValidationBlock) Pending() bool { return b.decision == "" }

// Resolve records the decision applied to this validation.
func (b *ValidationBlock) Resolve(decision agenthub.ValidationDecision) {
	b.decision = decision
}

func (b *ValidationBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *ValidationBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	switch b.decision {
	case agenthub.DecisionApprove:
		return wrap.Render(b.styles.Success.Render("✓ Action approved"))
	case agenthub.DecisionReject:
		return wrap.Render(b.styles.Error.Render("✗ Action rejected"))
	default:
		content := b.styles.Validation.Render("⚠ Approval required") +
			" " + b.styles.Muted.Render("a approve, r reject")
		return wrap.Render(content)
	}
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Chugyy/agenthub"
)

var _ MessageBlock = (*SourcesBlock)(nil)

const maxSourcePreview = 60

// SourcesBlock renders retrieval citations with a collapsible toggle.
type SourcesBlock struct {
	sources   []agenthub.Source
	collapsed bool
	styles    Styles
}

// NewSourcesBlock creates a SourcesBlock that starts collapsed.
func NewSourcesBlock(sources []agenthub.Source, styles Styles) *SourcesBlock {
	return &SourcesBlock{sources: sources, collapsed: true, styles: styles}
}

// Len returns the number of citations.
func (b *SourcesBlock) Len() int { return len(b.sources) }

func (b *SourcesBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *SourcesBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	indicator := "▶"
	if !b.collapsed {
		indicator = "▼"
	}
	header := b.styles.Sources.Render(fmt.Sprintf("%s Sources (%d)", indicator, len(b.sources)))
	if b.collapsed {
		return wrap.Render(header)
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, s := range b.sources {
		preview := runewidth.Truncate(firstLine(s.Content), maxSourcePreview, "…")
		line := "• " + b.styles.Sources.Render(s.ResourceName)
		if s.Similarity > 0 {
			line += " " + b.styles.Muted.Render(fmt.Sprintf("(%.0f%%)", s.Similarity*100))
		}
		if preview != "" {
			line += "  " + b.styles.Muted.Render(preview)
		}
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	return wrap.Render(sb.String())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

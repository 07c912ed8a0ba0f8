package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// TreeRow is one visible line of the topic navigation.
type TreeRow struct {
	Label      string
	Depth      int  // 0 topic, 1 sub-item
	Expandable bool // topic with sub-items
	Expanded   bool
	Checkable  bool // sub-item that carries a completion mark
	Done       bool
	Active     bool // the wizard's current detail view
}

// TopicTree renders the left navigation of the Eingabe step. Only the rows
// around the cursor are shown when Height is smaller than the tree.
type TopicTree struct {
	Rows   []TreeRow
	Cursor int
	Width  int
	Height int
}

// Render returns the tree.
func (t TopicTree) Render() string {
	if len(t.Rows) == 0 {
		return styles.Dim("keine Themen")
	}
	width := t.Width
	if width <= 0 {
		width = 34
	}

	start, end := 0, len(t.Rows)
	if t.Height > 0 && len(t.Rows) > t.Height {
		start = min(max(t.Cursor-t.Height/2, 0), len(t.Rows)-t.Height)
		end = start + t.Height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, t.renderRow(t.Rows[i], i == t.Cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (t TopicTree) renderRow(r TreeRow, cursor bool, width int) string {
	var prefix string
	switch {
	case r.Expandable && r.Expanded:
		prefix = "▾ "
	case r.Expandable:
		prefix = "▸ "
	case r.Checkable && r.Done:
		prefix = "✓ "
	case r.Checkable:
		prefix = "○ "
	default:
		prefix = "  "
	}
	indent := strings.Repeat("  ", r.Depth)
	text := indent + prefix + styles.TruncateWithEllipsis(r.Label, width-len([]rune(indent))-3)

	style := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	switch {
	case r.Depth == 0:
		style = lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true)
	case r.Done:
		style = styles.Done
	}
	if r.Active {
		style = style.Foreground(styles.AccentPrimary)
	}
	if cursor {
		style = styles.Selected
	}
	return style.Width(width).Render(text)
}

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// ProgressStep is the Eingabe › Optimierung › Abgabe indicator above the
// wizard.
type ProgressStep struct {
	Steps   []string
	Current int  // 0-indexed
	Idle    bool // no filing year selected yet, every step is muted
}

// Render returns the styled indicator. Steps before Current are green, the
// current step is bold accent, later steps are muted circles.
func (p ProgressStep) Render() string {
	if len(p.Steps) == 0 {
		return ""
	}

	done := lipgloss.NewStyle().Foreground(styles.StatusOK)
	active := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	todo := lipgloss.NewStyle().Foreground(styles.TextMuted)

	parts := make([]string, 0, len(p.Steps))
	for i, label := range p.Steps {
		switch {
		case p.Idle:
			parts = append(parts, todo.Render("○ "+label))
		case i < p.Current:
			parts = append(parts, done.Render("● "+label))
		case i == p.Current:
			parts = append(parts, active.Render("● "+label))
		default:
			parts = append(parts, todo.Render("○ "+label))
		}
	}

	return strings.Join(parts, todo.Render("  ›  "))
}

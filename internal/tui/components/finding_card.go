package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// FindingCard shows one error, problem or hint of the Optimierung step.
type FindingCard struct {
	Kind        string // "error", "problem", "hint"
	Title       string
	Description string
	Location    string // human label of the originating input screen
	Selected    bool
	Width       int
}

// Render returns the card as a bordered multi-line block.
func (c FindingCard) Render() string {
	width := c.Width
	if width <= 0 {
		width = 60
	}

	title := lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true).Render(c.Title)
	line1 := styles.KindBadge(c.Kind) + "  " + title

	lines := []string{line1}
	if c.Location != "" {
		lines = append(lines, styles.Label.Render("in: ")+
			lipgloss.NewStyle().Foreground(styles.AccentSecondary).Render(c.Location))
	}
	if c.Description != "" {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(width-4).
			Render(c.Description))
	}

	card := styles.Card
	if c.Selected {
		card = styles.CardSelected.BorderForeground(styles.KindColor(c.Kind))
	}
	return card.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderCompact returns a single-line representation for lists.
func (c FindingCard) RenderCompact() string {
	dot := lipgloss.NewStyle().Foreground(styles.KindColor(c.Kind)).Render("●")
	max := c.Width - 4
	if max <= 0 {
		max = 56
	}
	text := styles.TruncateWithEllipsis(c.Title, max)
	if c.Selected {
		return dot + " " + styles.Selected.Render(text)
	}
	return dot + " " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(text)
}

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// CountGauge displays one count of the submission summary, colored by
// thresholds.
type CountGauge struct {
	Label      string
	Value      int
	Thresholds [2]int // [warn, critical]
	HighIsGood bool   // true for completed items, false for findings
}

func (g CountGauge) color() lipgloss.Color {
	warn, critical := g.Thresholds[0], g.Thresholds[1]
	if g.HighIsGood {
		switch {
		case g.Value <= critical:
			return styles.StatusError
		case g.Value <= warn:
			return styles.StatusWarn
		}
		return styles.StatusOK
	}
	switch {
	case g.Value >= critical:
		return styles.StatusError
	case g.Value >= warn:
		return styles.StatusWarn
	}
	return styles.StatusOK
}

// Render returns the value above its label.
func (g CountGauge) Render() string {
	return lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.NewStyle().Foreground(g.color()).Bold(true).Render(strconv.Itoa(g.Value)),
		lipgloss.NewStyle().Foreground(styles.TextMuted).Render(g.Label),
	)
}

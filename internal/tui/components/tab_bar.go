package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// Tab is one entry of a TabBar. A negative Count hides the badge.
type Tab struct {
	Label string
	Count int
	Color lipgloss.Color
}

// TabBar renders horizontal tab selection.
type TabBar struct {
	Tabs      []Tab
	ActiveTab int
	Width     int
}

// Render returns the styled tab bar string.
func (t TabBar) Render() string {
	if len(t.Tabs) == 0 {
		return ""
	}

	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		PaddingLeft(1).
		PaddingRight(1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		PaddingLeft(1).
		PaddingRight(1)

	tabs := make([]string, 0, len(t.Tabs))
	for i, tab := range t.Tabs {
		label := tab.Label
		if tab.Count >= 0 {
			label = fmt.Sprintf("%s (%d)", tab.Label, tab.Count)
		}
		if i == t.ActiveTab {
			color := tab.Color
			if color == "" {
				color = styles.AccentPrimary
			}
			tabs = append(tabs, activeStyle.Foreground(color).Render(label))
		} else {
			tabs = append(tabs, inactiveStyle.Render(label))
		}
	}

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("│")

	return lipgloss.NewStyle().
		Background(styles.BgDeep).
		Width(t.Width).
		Render(strings.Join(tabs, sep))
}

package components

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// Header renders the app header bar: logo, taxpayer, filing year and the
// outstanding finding counts.
type Header struct {
	Taxpayer string
	Year     int // 0 while no year is selected
	Errors   int
	Problems int
	Hints    int
	Width    int
}

// Render returns the styled header string.
func (h Header) Render() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	logo := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Render(styles.CompactLogo)

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")

	content := logo
	if h.Taxpayer != "" {
		content += sep + styles.Label.Render("Für: ") + styles.Value.Render(h.Taxpayer)
	}

	year := "–"
	if h.Year > 0 {
		year = strconv.Itoa(h.Year)
	}
	content += sep + styles.Label.Render("Jahr: ") +
		lipgloss.NewStyle().Foreground(styles.AccentGold).Bold(true).Render(year)

	if h.Year > 0 {
		count := func(n int, c lipgloss.Color) string {
			if n == 0 {
				c = styles.TextMuted
			}
			return lipgloss.NewStyle().Foreground(c).Bold(true).Render(strconv.Itoa(n))
		}
		content += sep + fmt.Sprintf("%s %s  %s %s  %s %s",
			count(h.Errors, styles.StatusError), styles.Label.Render("Fehler"),
			count(h.Problems, styles.StatusWarn), styles.Label.Render("Probleme"),
			count(h.Hints, styles.StatusInfo), styles.Label.Render("Tipps"))
	}

	return styles.Header.Width(width).Render(content)
}

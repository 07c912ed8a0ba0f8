package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// KeyHint describes a single keybinding hint for display in the footer.
type KeyHint struct {
	Key  string // "q", "tab", "↑↓"
	Desc string // "beenden", "weiter"
}

// Footer renders context-aware keybinding hints.
type Footer struct {
	Hints []KeyHint
	Width int
}

// Render returns the styled footer string.
func (f Footer) Render() string {
	width := f.Width
	if width <= 0 {
		width = 80
	}

	keyStyle := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	parts := make([]string, 0, len(f.Hints))
	for _, h := range f.Hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}

	return styles.Footer.
		Background(styles.BgDeep).
		Width(width).
		Render(strings.Join(parts, descStyle.Render(" • ")))
}

// YearFooter is shown on the year picker.
func YearFooter(width int) Footer {
	return Footer{
		Hints: []KeyHint{
			{Key: "↑↓", Desc: "Jahr"},
			{Key: "enter", Desc: "starten"},
			{Key: "q", Desc: "beenden"},
		},
		Width: width,
	}
}

// InputFooter is shown on the Eingabe step.
func InputFooter(width int) Footer {
	return Footer{
		Hints: []KeyHint{
			{Key: "↑↓", Desc: "Thema"},
			{Key: "enter", Desc: "öffnen"},
			{Key: "→", Desc: "aufklappen"},
			{Key: "space", Desc: "erledigt"},
			{Key: "tab", Desc: "Auswahl"},
			{Key: "n", Desc: "weiter"},
			{Key: "?", Desc: "Hilfe"},
		},
		Width: width,
	}
}

// OptimizeFooter is shown on the Optimierung step.
func OptimizeFooter(width int) Footer {
	return Footer{
		Hints: []KeyHint{
			{Key: "←→", Desc: "Liste"},
			{Key: "↑↓", Desc: "Eintrag"},
			{Key: "enter", Desc: "beheben"},
			{Key: "x", Desc: "ausblenden"},
			{Key: "n", Desc: "weiter"},
			{Key: "esc", Desc: "abbrechen"},
		},
		Width: width,
	}
}

// SubmitFooter is shown on the Abgabe step.
func SubmitFooter(width int) Footer {
	return Footer{
		Hints: []KeyHint{
			{Key: "m", Desc: "Nachricht"},
			{Key: "s", Desc: "abgeben"},
			{Key: "r", Desc: "Termine neu laden"},
			{Key: "esc", Desc: "zurück"},
		},
		Width: width,
	}
}

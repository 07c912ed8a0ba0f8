package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// ConfirmDialog is a modal Ja/Nein dialog.
type ConfirmDialog struct {
	Title     string
	Message   string
	Confirmed bool
	Done      bool
	selected  int // 0 = Ja, 1 = Nein
}

// NewConfirmDialog creates a dialog with "Nein" preselected.
func NewConfirmDialog(title, message string) ConfirmDialog {
	return ConfirmDialog{
		Title:    title,
		Message:  message,
		selected: 1,
	}
}

// Init satisfies tea.Model.
func (d ConfirmDialog) Init() tea.Cmd {
	return nil
}

// Update handles the dialog keys. Done is set once the user answered.
func (d ConfirmDialog) Update(msg tea.Msg) (ConfirmDialog, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch key.String() {
	case "j", "J", "y", "Y":
		d.Confirmed = true
		d.Done = true
	case "n", "N", "esc":
		d.Confirmed = false
		d.Done = true
	case "enter":
		d.Confirmed = d.selected == 0
		d.Done = true
	case "left", "h", "tab":
		d.selected = 0
	case "right", "l", "shift+tab":
		d.selected = 1
	}
	return d, nil
}

// View returns the styled dialog.
func (d ConfirmDialog) View() string {
	title := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true).Render(d.Title)
	message := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(d.Message)

	on := lipgloss.NewStyle().
		Background(styles.AccentPrimary).
		Foreground(styles.BgDeep).
		Bold(true).
		Padding(0, 1)
	off := lipgloss.NewStyle().
		Background(styles.BgSurface).
		Foreground(styles.TextSecondary).
		Padding(0, 1)

	yes, no := off.Render(" Ja "), on.Render(" Nein ")
	if d.selected == 0 {
		yes, no = on.Render(" Ja "), off.Render(" Nein ")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		message,
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, yes, "  ", no),
		"",
		lipgloss.NewStyle().Foreground(styles.TextMuted).Render("j/n oder ←→ + enter"),
	)

	return lipgloss.NewStyle().
		Background(styles.BgPanel).
		Border(styles.DoubleBorder).
		BorderForeground(styles.AccentTertiary).
		Padding(1, 2).
		Width(48).
		Align(lipgloss.Center).
		Render(content)
}

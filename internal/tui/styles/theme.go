package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// Panel styles
// ---------------------------------------------------------------------------

// Panel is the default panel style: rounded border in BorderNormal with
// 1-cell padding on all sides.
var Panel = lipgloss.NewStyle().
	Border(RoundedBorder).
	BorderForeground(BorderNormal).
	Padding(1)

// PanelFocused is identical to Panel but uses the focus border.
var PanelFocused = Panel.
	BorderForeground(BorderFocused)

// Card is a compact surface with a thin border and horizontal padding only.
var Card = lipgloss.NewStyle().
	Border(ThinBorder).
	BorderForeground(BorderNormal).
	PaddingLeft(1).
	PaddingRight(1)

// CardSelected highlights the card under the cursor.
var CardSelected = Card.
	BorderForeground(BorderFocused)

// ---------------------------------------------------------------------------
// Header / Footer
// ---------------------------------------------------------------------------

// Header is the top bar. Callers set the width.
var Header = lipgloss.NewStyle().
	Background(BgDeep).
	Foreground(TextPrimary).
	PaddingLeft(1).
	PaddingRight(1)

// Footer spans the full width with muted text.
var Footer = lipgloss.NewStyle().
	Foreground(TextMuted).
	PaddingLeft(1).
	PaddingRight(1)

// ---------------------------------------------------------------------------
// Badge helpers
// ---------------------------------------------------------------------------

// Badge returns an inline colored badge such as "● FEHLER" in the given
// color.
func Badge(text string, color lipgloss.Color) string {
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	label := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render(text)
	return dot + " " + label
}

// KindColor maps a finding severity ("error", "problem", "hint") to its
// color.
func KindColor(kind string) lipgloss.Color {
	switch strings.ToLower(kind) {
	case "error":
		return StatusError
	case "problem":
		return StatusWarn
	default:
		return StatusInfo
	}
}

// KindBadge returns the badge shown next to a finding.
func KindBadge(kind string) string {
	switch strings.ToLower(kind) {
	case "error":
		return Badge("FEHLER", StatusError)
	case "problem":
		return Badge("PROBLEM", StatusWarn)
	default:
		return Badge("TIPP", StatusInfo)
	}
}

// ---------------------------------------------------------------------------
// Typography styles
// ---------------------------------------------------------------------------

// Title is bold AccentPrimary text for section headings.
var Title = lipgloss.NewStyle().
	Foreground(AccentPrimary).
	Bold(true)

// Subtitle is regular TextSecondary text for secondary headings.
var Subtitle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// Label is TextMuted text for field labels. Pass uppercase strings for the
// conventional LABEL look.
var Label = lipgloss.NewStyle().
	Foreground(TextMuted)

// Value is bold TextPrimary text for data values.
var Value = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Bold(true)

// Selected marks the row under the cursor.
var Selected = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Background(BgHover).
	Bold(true)

// Done is green text for completed items.
var Done = lipgloss.NewStyle().
	Foreground(StatusOK)

// ---------------------------------------------------------------------------
// Table helpers
// ---------------------------------------------------------------------------

// TableHeader is bold, underlined, TextSecondary for column headings.
var TableHeader = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Bold(true).
	Underline(true)

// TableRow returns a style for a table row. Pass an even (true) or odd
// (false) flag to get alternating zebra-stripe backgrounds.
func TableRow(even bool) lipgloss.Style {
	bg := BgPanel
	if !even {
		bg = BgSurface
	}
	return lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(bg)
}

// ---------------------------------------------------------------------------
// Divider
// ---------------------------------------------------------------------------

// Divider returns a horizontal rule of the given width using the ─ character
// rendered in BorderNormal color.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	line := strings.Repeat("─", width)
	return lipgloss.NewStyle().Foreground(BorderNormal).Render(line)
}

package styles

import "github.com/charmbracelet/lipgloss"

// Amtsstube -- Dark Palette
// Ink-blue backgrounds with paper-white text and a stamp-red accent.

var (
	// Backgrounds (darkest to lightest)
	BgDeep    = lipgloss.Color("#0d1117") // Deepest -- main background
	BgPanel   = lipgloss.Color("#141a23") // Panel/card background
	BgSurface = lipgloss.Color("#1c2430") // Elevated surface
	BgHover   = lipgloss.Color("#26303f") // Hover/selected row

	// Accents
	AccentPrimary   = lipgloss.Color("#5b9bd5") // Ink blue -- primary actions, focused borders
	AccentSecondary = lipgloss.Color("#7fb8a4") // Sage -- secondary info
	AccentTertiary  = lipgloss.Color("#b48ead") // Mauve -- sub-items
	AccentGold      = lipgloss.Color("#e0b354") // Gold -- amounts, highlights

	// Status
	StatusOK    = lipgloss.Color("#5fb760") // Green -- completed
	StatusWarn  = lipgloss.Color("#e5a33d") // Amber -- problems
	StatusError = lipgloss.Color("#d9534f") // Stamp red -- errors
	StatusInfo  = lipgloss.Color("#5b9bd5") // Blue -- hints

	// Text
	TextPrimary   = lipgloss.Color("#e8e6e1") // Paper white
	TextSecondary = lipgloss.Color("#a4acb9") // Dimmed
	TextMuted     = lipgloss.Color("#6b7585") // Very dim

	// Borders
	BorderNormal  = lipgloss.Color("#2f3a4a") // Subtle
	BorderFocused = lipgloss.Color("#5b9bd5") // Blue focus ring
)

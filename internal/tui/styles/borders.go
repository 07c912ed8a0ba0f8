package styles

import "github.com/charmbracelet/lipgloss"

// RoundedBorder uses rounded corners for general panels.
var RoundedBorder = lipgloss.RoundedBorder()

// DoubleBorder marks dialogs that need an answer before anything else.
var DoubleBorder = lipgloss.DoubleBorder()

// ThinBorder uses standard single-line characters for finding cards.
var ThinBorder = lipgloss.NormalBorder()

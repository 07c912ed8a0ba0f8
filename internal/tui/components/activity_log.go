package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// Activity is one entry of the session activity feed.
type Activity struct {
	Time    time.Time
	Level   string // "info", "warn", "error", "success"
	Source  string // "BELEGE", "NACHRICHT", "TERMINE"
	Message string
}

// ActivityLog is a scrollable feed of what happened in the session:
// document changes, sent messages, appointment lookups.
type ActivityLog struct {
	entries    []Activity
	viewport   viewport.Model
	autoScroll bool
	maxEntries int
}

// NewActivityLog creates a feed with the given dimensions.
func NewActivityLog(width, height int) ActivityLog {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle().Background(styles.BgPanel)
	return ActivityLog{
		viewport:   vp,
		autoScroll: true,
		maxEntries: 200,
	}
}

// Update scrolls the feed. Scrolling up pauses auto-scroll, G resumes it.
func (l ActivityLog) Update(msg tea.Msg) (ActivityLog, tea.Cmd) {
	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "G" {
		l.autoScroll = true
		l.viewport.GotoBottom()
		return l, nil
	}
	l.viewport, cmd = l.viewport.Update(msg)
	l.autoScroll = l.viewport.AtBottom()
	return l, cmd
}

// View returns the titled viewport.
func (l ActivityLog) View() string {
	title := lipgloss.NewStyle().Foreground(styles.TextSecondary).Bold(true).Render("Verlauf")
	if !l.autoScroll {
		title += lipgloss.NewStyle().Foreground(styles.StatusWarn).Render(" (angehalten, G springt ans Ende)")
	}
	return title + "\n" + l.viewport.View()
}

// SetSize resizes the viewport.
func (l *ActivityLog) SetSize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.viewport.SetContent(l.render())
}

// Len returns the number of entries kept.
func (l ActivityLog) Len() int {
	return len(l.entries)
}

// Entries returns the kept entries, oldest first.
func (l ActivityLog) Entries() []Activity {
	return l.entries
}

// Add appends an entry, dropping the oldest beyond the cap.
func (l *ActivityLog) Add(a Activity) {
	l.entries = append(l.entries, a)
	if over := len(l.entries) - l.maxEntries; over > 0 {
		l.entries = l.entries[over:]
	}
	l.viewport.SetContent(l.render())
	if l.autoScroll {
		l.viewport.GotoBottom()
	}
}

func levelColor(level string) lipgloss.Color {
	switch strings.ToLower(level) {
	case "warn":
		return styles.StatusWarn
	case "error":
		return styles.StatusError
	case "success":
		return styles.StatusOK
	case "info":
		return styles.TextSecondary
	default:
		return styles.TextMuted
	}
}

func (l *ActivityLog) render() string {
	var b strings.Builder
	for _, e := range l.entries {
		color := levelColor(e.Level)
		ts := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(e.Time.Format("15:04:05"))
		src := lipgloss.NewStyle().Foreground(styles.AccentSecondary).Render(fmt.Sprintf("%-10s", e.Source))
		msg := lipgloss.NewStyle().Foreground(color).Render(e.Message)
		b.WriteString(ts + " " + src + " " + msg + "\n")
	}
	return b.String()
}

package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var categories = []struct{ key, title string }{
	{"config", "Konfiguration"},
	{"workspace", "Arbeitsverzeichnis"},
	{"services", "Dienste"},
	{"catalog", "Themenkatalog"},
}

var (
	rowName  = lipgloss.NewStyle().Width(22).Foreground(styles.TextPrimary)
	rowMsg   = lipgloss.NewStyle().Width(40).Foreground(styles.TextSecondary)
	rowTime  = lipgloss.NewStyle().Width(8).Foreground(styles.TextMuted).Align(lipgloss.Right)
	catTitle = lipgloss.NewStyle().Foreground(styles.AccentSecondary).Bold(true).MarginTop(1)
)

// FormatReport renders r as the `steuerklar doctor` table, grouped by
// category.
func FormatReport(r *Report) string {
	var b strings.Builder

	b.WriteString("\n  " + styles.Title.Render("steuerklar doctor") + "\n")
	b.WriteString("  " + styles.Divider(50) + "\n")

	for _, cat := range categories {
		var rows []string
		worst := StatusPass
		for _, res := range r.Results {
			if res.Category != cat.key {
				continue
			}
			rows = append(rows, formatRow(res))
			worst = max(worst, res.Status)
		}
		if len(rows) == 0 {
			continue
		}
		head := catTitle.Render(cat.title) + " " + statusSymbol(worst)
		b.WriteString("\n  " + head + "\n")
		b.WriteString(strings.Join(rows, ""))
	}

	b.WriteString("\n  " + styles.Divider(50) + "\n")

	parts := []string{fmt.Sprintf("%d/%d bestanden", r.Passed, r.Total)}
	if r.Warned > 0 {
		parts = append(parts, fmt.Sprintf("%d Warnung(en)", r.Warned))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d fehlgeschlagen", r.Failed))
	}
	word, st := Verdict(r)
	badge := lipgloss.NewStyle().Foreground(statusColor(st)).Bold(true).Render(word)
	fmt.Fprintf(&b, "  %s  %s\n", styles.Subtitle.Render(strings.Join(parts, ", ")), badge)
	b.WriteString("  " + styles.Dim("fertig in "+formatDuration(r.Duration)) + "\n")

	return b.String()
}

func formatRow(res CheckResult) string {
	return fmt.Sprintf("  %s %s %s %s\n",
		statusSymbol(res.Status),
		rowName.Render(res.Name),
		rowMsg.Render(styles.TruncateWithEllipsis(res.Message, 38)),
		rowTime.Render(formatDuration(res.Duration)))
}

func statusColor(s Status) lipgloss.Color {
	switch s {
	case StatusPass:
		return styles.StatusOK
	case StatusWarn:
		return styles.StatusWarn
	case StatusFail:
		return styles.StatusError
	}
	return styles.TextMuted
}

func statusSymbol(s Status) string {
	return lipgloss.NewStyle().Foreground(statusColor(s)).Bold(true).Render(s.Symbol())
}

// Verdict is the one-word summary of a report: BEREIT when everything
// passed, EINGESCHRÄNKT with warnings, FEHLERHAFT with any failure.
func Verdict(r *Report) (string, Status) {
	switch {
	case r.Failed > 0:
		return "FEHLERHAFT", StatusFail
	case r.Warned > 0:
		return "EINGESCHRÄNKT", StatusWarn
	}
	return "BEREIT", StatusPass
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

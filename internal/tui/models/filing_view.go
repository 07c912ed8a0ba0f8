package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/steuerklar/steuerklar/internal/appointments"
	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/tui/components"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// View renders the year picker or the current step.
func (m FilingModel) View() string {
	inner := clampWidth(m.width-4, 116)
	out := m.wiz.Outstanding()

	header := components.Header{
		Taxpayer: m.deps.Identity.DisplayName(),
		Year:     m.wiz.Year(),
		Errors:   out[filing.KindError],
		Problems: out[filing.KindProblem],
		Hints:    out[filing.KindHint],
		Width:    m.width,
	}
	progress := components.ProgressStep{
		Steps:   filing.StepLabels(),
		Current: int(m.wiz.Step()),
		Idle:    !m.wiz.InSession(),
	}

	sections := []string{
		header.Render(),
		"",
		"  " + progress.Render(),
		"",
		"  " + styles.Divider(inner),
		"",
	}

	if m.explain {
		if text := m.explainContent(inner - 4); text != "" {
			box := lipgloss.NewStyle().
				Background(styles.BgSurface).
				Foreground(styles.AccentSecondary).
				Border(styles.ThinBorder).
				BorderForeground(styles.AccentSecondary).
				Padding(0, 1).
				Width(inner - 2)
			sections = append(sections, "  "+box.Render(styles.Gold("[Erklärung] ")+text), "")
		}
	}

	var footer components.Footer
	switch {
	case !m.wiz.InSession():
		sections = append(sections, m.viewYearPicker())
		footer = components.YearFooter(m.width)
	case m.wiz.Step() == filing.StepInput:
		sections = append(sections, m.viewInput(inner))
		footer = components.InputFooter(m.width)
	case m.wiz.Step() == filing.StepOptimize:
		sections = append(sections, m.viewOptimize(inner))
		footer = components.OptimizeFooter(m.width)
	default:
		sections = append(sections, m.viewSubmit(inner))
		footer = components.SubmitFooter(m.width)
	}

	if m.status != "" {
		color := styles.StatusOK
		if m.statusErr {
			color = styles.StatusError
		}
		sections = append(sections, "", "  "+lipgloss.NewStyle().Foreground(color).Render(m.status))
	}

	if m.dialog != nil {
		sections = append(sections, "", lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.dialog.View()))
	}

	sections = append(sections, "", "  "+styles.Divider(inner), footer.Render())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// ---------------------------------------------------------------------------
// Year picker
// ---------------------------------------------------------------------------

func (m FilingModel) viewYearPicker() string {
	lines := []string{
		"  " + styles.Title.Render("Für welches Jahr möchtest du die Steuererklärung machen?"),
		"",
	}
	if len(m.deps.Years) == 0 {
		lines = append(lines, "  "+styles.Dim("Keine Steuerjahre konfiguriert (years in config.yaml)."))
	}
	for i, y := range m.deps.Years {
		label := "Steuererklärung " + strconv.Itoa(y)
		if i == m.yearCursor {
			lines = append(lines, "  "+styles.Cyan("▸ ")+styles.Selected.Render(" "+label+" "))
		} else {
			lines = append(lines, "    "+styles.Subtitle.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Eingabe
// ---------------------------------------------------------------------------

func (m FilingModel) viewInput(inner int) string {
	treeW := 34
	detailW := max(inner-treeW-6, 30)

	var rows []components.TreeRow
	active := m.treeRow()
	for _, e := range m.entries() {
		row := components.TreeRow{
			Label:  e.topic.Label,
			Active: e.address() == active,
		}
		if e.sub == nil {
			row.Expandable = e.topic.HasSubItems
			row.Expanded = m.wiz.Expanded() == e.topic.ID
		} else {
			row.Label = e.sub.Label
			row.Depth = 1
			row.Checkable = true
			row.Done = m.wiz.IsComplete(filing.SubItemID(e.sub.ID))
		}
		rows = append(rows, row)
	}
	tree := components.TopicTree{
		Rows:   rows,
		Cursor: m.treeCursor,
		Width:  treeW,
		Height: max(m.height-16, 8),
	}

	treePanel := styles.Panel
	if m.focus == focusTree {
		treePanel = styles.PanelFocused
	}
	detailPanel := styles.Panel
	if m.focus == focusOptions {
		detailPanel = styles.PanelFocused
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ",
		treePanel.Padding(0, 1).Render(tree.Render()),
		" ",
		detailPanel.Padding(0, 1).Width(detailW).Render(m.viewDetail(detailW-2)),
	)
}

func (m FilingModel) viewDetail(width int) string {
	c := m.wiz.Catalog()
	sel := m.wiz.Selected()
	lines := []string{styles.Title.Render(c.Label(sel)), ""}

	addr, err := c.ParseAddress(sel)
	if err != nil {
		return strings.Join(append(lines, styles.Red(err.Error())), "\n")
	}

	if addr.Kind == filing.AddrSubItem {
		if sub, ok := c.SubItem(addr.Topic, addr.SubItem); ok {
			state := styles.Dim("○ offen")
			if m.wiz.IsComplete(filing.SubItemID(sub.ID)) {
				state = styles.Green("✓ erledigt")
			}
			lines = append(lines, styles.Label.Render("Status: ")+state)
			if sub.Amount != nil {
				lines = append(lines, styles.Label.Render("Pauschale: ")+styles.Gold(sub.Amount.String()))
			}
			lines = append(lines, "")
		}
	}

	if g, ok := m.selectedGroup(); ok {
		lines = append(lines, m.viewOptions(g)...)
		lines = append(lines, "")
	}

	if addr.Kind == filing.AddrTopic {
		if t, ok := c.Topic(addr.Topic); ok && t.HasSubItems {
			done := 0
			for _, s := range t.SubItems {
				if m.wiz.IsComplete(filing.SubItemID(s.ID)) {
					done++
				}
			}
			lines = append(lines, styles.Label.Render("Erledigt: ")+styles.CompletionBar(done, len(t.SubItems), 12), "")
		}
	}

	lines = append(lines, m.viewDocuments(width)...)
	return strings.Join(lines, "\n")
}

func (m FilingModel) viewOptions(g filing.Group) []string {
	lines := []string{styles.Subtitle.Render("Was trifft auf dich zu?")}
	for i, o := range g.Options {
		box := "[ ]"
		if m.wiz.IsSelected(g.ID, o.ID) {
			box = styles.Cyan("[x]")
		}
		id := filing.GroupItemID(g.ID, o.ID)
		mark := "  "
		if m.wiz.IsComplete(id) {
			mark = styles.Green("✓ ")
		}
		text := box + " " + mark + o.Label
		if amt := m.wiz.Amount(id); !amt.IsZero() {
			text += "  " + styles.Gold(amt.String())
		}
		if m.focus == focusOptions && i == m.optionCursor {
			text = styles.Cyan("▸ ") + styles.Selected.Render(text)
		} else {
			text = "  " + text
		}
		lines = append(lines, text)
	}
	if m.editingAmount {
		lines = append(lines, "", styles.Label.Render("Betrag: ")+m.amountInput.View())
	} else if m.focus == focusOptions {
		lines = append(lines, "", styles.Dim("space auswählen • d erledigt • a Betrag • tab zurück"))
	}
	return lines
}

func (m FilingModel) viewDocuments(width int) []string {
	if m.deps.Documents == nil {
		return []string{styles.Dim("Belegablage nicht eingerichtet.")}
	}
	if m.docsErr != nil {
		return []string{styles.Red("Belege konnten nicht geladen werden: " + m.docsErr.Error())}
	}
	lines := []string{styles.Subtitle.Render(fmt.Sprintf("Belege (%d)", len(m.docs)))}
	for i, d := range m.docs {
		if i == 5 {
			lines = append(lines, styles.Dim(fmt.Sprintf("  … und %d weitere", len(m.docs)-5)))
			break
		}
		name := styles.TruncateWithEllipsis(d.Name, max(width-16, 10))
		lines = append(lines, "  "+styles.Value.Render(name)+"  "+styles.Dim(d.UploadDate.Format("02.01.2006")))
	}
	return lines
}

// ---------------------------------------------------------------------------
// Optimierung
// ---------------------------------------------------------------------------

func (m FilingModel) viewOptimize(inner int) string {
	out := m.wiz.Outstanding()
	labels := map[filing.Kind]string{
		filing.KindError:   "Fehler",
		filing.KindProblem: "Probleme",
		filing.KindHint:    "Tipps",
	}
	var tabs []components.Tab
	for _, k := range filing.Kinds() {
		tabs = append(tabs, components.Tab{
			Label: labels[k],
			Count: out[k],
			Color: styles.KindColor(k.String()),
		})
	}
	bar := components.TabBar{Tabs: tabs, ActiveTab: m.tab, Width: inner}

	kind := m.currentKind()
	list := m.wiz.Visible(kind)
	lines := []string{"  " + bar.Render(), ""}
	if len(list) == 0 {
		lines = append(lines, "  "+styles.Green("Keine offenen "+labels[kind]+"."))
		return strings.Join(lines, "\n")
	}

	cur := min(m.findingCursor, len(list)-1)
	for i, f := range list {
		card := components.FindingCard{
			Kind:     kind.String(),
			Title:    f.Title,
			Location: m.wiz.Catalog().Label(f.Category),
			Selected: i == cur,
			Width:    inner - 2,
		}
		if i == cur {
			lines = append(lines, indent(card.Render(), "  "))
		} else {
			lines = append(lines, "  "+card.RenderCompact())
		}
	}
	if desc := list[cur].Description; desc != "" {
		lines = append(lines, "", indent(renderMarkdown(desc, inner-4), "  "))
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Abgabe
// ---------------------------------------------------------------------------

func (m FilingModel) viewSubmit(inner int) string {
	out := m.wiz.Outstanding()
	done := len(m.wiz.Snapshot().Completed)

	gauges := lipgloss.JoinHorizontal(lipgloss.Top,
		components.CountGauge{Label: "erledigt", Value: done, Thresholds: [2]int{2, 0}, HighIsGood: true}.Render(),
		"      ",
		components.CountGauge{Label: "Fehler", Value: out[filing.KindError], Thresholds: [2]int{1, 1}}.Render(),
		"      ",
		components.CountGauge{Label: "Probleme", Value: out[filing.KindProblem], Thresholds: [2]int{1, 3}}.Render(),
		"      ",
		components.CountGauge{Label: "Tipps", Value: out[filing.KindHint], Thresholds: [2]int{99, 99}}.Render(),
	)

	lines := []string{
		"  " + styles.Title.Render(fmt.Sprintf("Abgabe der Steuererklärung %d", m.wiz.Year())),
		"",
		indent(gauges, "  "),
		"",
	}
	if m.submitted {
		lines = append(lines, "  "+styles.Badge("ABGEGEBEN", styles.StatusOK), "")
	} else if out[filing.KindError] > 0 {
		lines = append(lines, "  "+styles.Dim("Offene Fehler verhindern die Abgabe nicht, sollten aber geprüft werden."), "")
	}

	lines = append(lines, "  "+styles.Subtitle.Render("Termine"))
	lines = append(lines, m.viewAppointments()...)
	lines = append(lines, "")

	lines = append(lines, "  "+styles.Subtitle.Render("Nachricht"))
	switch {
	case m.composing:
		lines = append(lines, "  "+m.composer.View())
	case m.sending:
		lines = append(lines, "  "+styles.Dim("wird gesendet …"))
	default:
		lines = append(lines, "  "+styles.Dim("m drücken, um eine Nachricht zu schreiben"))
	}

	if m.activity.Len() > 0 {
		lines = append(lines, "", indent(m.activity.View(), "  "))
	}
	return strings.Join(lines, "\n")
}

func (m FilingModel) viewAppointments() []string {
	switch {
	case m.deps.Appointments == nil:
		return []string{"  " + styles.Dim("Terminverwaltung nicht eingerichtet.")}
	case m.loadingAppts:
		return []string{"  " + m.spin.View() + " Termine werden geladen …"}
	case m.overview == nil:
		return []string{"  " + styles.Dim("r drücken, um Termine zu laden")}
	}

	ov := m.overview
	var lines []string
	if ov.Example {
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(styles.StatusWarn).Render(ov.Notice))
	}
	if ov.Next != nil {
		lines = append(lines, "  "+styles.Label.Render("Nächster: ")+styles.Value.Render(appointments.Format(*ov.Next)))
	} else {
		lines = append(lines, "  "+styles.Dim("Kein anstehender Termin."))
	}
	for i, a := range ov.Past {
		if i == 3 {
			break
		}
		lines = append(lines, "  "+styles.Label.Render("Vergangen: ")+styles.Subtitle.Render(appointments.Format(a)))
	}
	return lines
}

// ---------------------------------------------------------------------------
// Explain panel
// ---------------------------------------------------------------------------

func (m FilingModel) explainContent(width int) string {
	if !m.wiz.InSession() {
		return "Jedes Steuerjahr ist eine eigene Sitzung. Ein anderes Jahr zu wählen verwirft die Angaben der laufenden Sitzung."
	}
	switch m.wiz.Step() {
	case filing.StepInput:
		addr, err := m.wiz.Catalog().ParseAddress(m.wiz.Selected())
		if err != nil {
			return ""
		}
		t, ok := m.wiz.Catalog().Topic(addr.TopicID())
		if !ok || t.Help == "" {
			return ""
		}
		return renderMarkdown(t.Help, width)
	case filing.StepOptimize:
		return "Fehler, Probleme und Tipps werden aus deinen Angaben abgeleitet. " +
			"Mit enter springst du zur passenden Eingabe; ausgeblendete Einträge bleiben bis zum Ende der Sitzung verborgen."
	case filing.StepSubmit:
		return "Die Abgabe ist jederzeit möglich, auch mit offenen Fehlern."
	}
	return ""
}

// renderMarkdown renders help and finding texts. It falls back to the raw
// text when glamour fails.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

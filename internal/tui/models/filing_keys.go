package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/steuerklar/steuerklar/internal/filing"
)

// ---------------------------------------------------------------------------
// Key handling
// ---------------------------------------------------------------------------

func (m FilingModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Dialog takes priority.
	if m.dialog != nil {
		d, _ := m.dialog.Update(msg)
		if !d.Done {
			m.dialog = &d
			return m, nil
		}
		m.dialog = nil
		if !d.Confirmed {
			return m, nil
		}
		return m.confirm(m.dialogAction)
	}

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.editingAmount {
		return m.handleAmountKey(msg)
	}
	if m.composing {
		return m.handleComposerKey(msg)
	}

	switch key {
	case "?":
		m.explain = !m.explain
		return m, nil
	case "q":
		if !m.wiz.InSession() {
			return m, tea.Quit
		}
		m.openDialog(actionQuit, "Beenden?", "Die Angaben dieser Sitzung gehen verloren.")
		return m, nil
	}

	prev := m.viewKey()
	m.status = ""

	var cmd tea.Cmd
	switch {
	case !m.wiz.InSession():
		m = m.handleYearKey(key)
	case key == "1" || key == "2" || key == "3":
		m.wiz.JumpTo(filing.Step(key[0] - '1'))
	default:
		switch m.wiz.Step() {
		case filing.StepInput:
			if m.focus == focusOptions {
				m, cmd = m.handleOptionKey(key)
			} else {
				m = m.handleTreeKey(key)
			}
		case filing.StepOptimize:
			m = m.handleOptimizeKey(key)
		case filing.StepSubmit:
			m, cmd = m.handleSubmitKey(msg)
		}
	}

	m, settle := m.settle(prev)
	return m, tea.Batch(cmd, settle)
}

func (m FilingModel) confirm(action dialogAction) (tea.Model, tea.Cmd) {
	switch action {
	case actionQuit:
		return m, tea.Quit
	case actionSubmit:
		f := m.wiz.Outstanding()
		body := fmt.Sprintf("Steuererklärung %d abgegeben: %d Angaben erledigt, %d Fehler, %d Probleme offen.",
			m.wiz.Year(), len(m.wiz.Snapshot().Completed), f[filing.KindError], f[filing.KindProblem])
		m.logger.Info("submitting", "year", m.wiz.Year(), "errors", f[filing.KindError])
		return m.send("abgabe", body, true)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Year picker
// ---------------------------------------------------------------------------

func (m FilingModel) handleYearKey(key string) FilingModel {
	switch key {
	case "up", "k":
		if m.yearCursor > 0 {
			m.yearCursor--
		}
	case "down", "j":
		if m.yearCursor < len(m.deps.Years)-1 {
			m.yearCursor++
		}
	case "enter":
		if len(m.deps.Years) == 0 {
			m.setStatus(true, "Keine Steuerjahre konfiguriert.")
			return m
		}
		year := m.deps.Years[m.yearCursor]
		m.wiz.SelectYear(year)
		m.logger.Info("filing year selected", "year", year)
		m.treeCursor = 0
	}
	return m
}

// ---------------------------------------------------------------------------
// Eingabe
// ---------------------------------------------------------------------------

func (m FilingModel) handleTreeKey(key string) FilingModel {
	entries := m.entries()
	if len(entries) == 0 {
		return m
	}
	m.clampTree()
	cur := entries[m.treeCursor]

	switch key {
	case "up", "k":
		if m.treeCursor > 0 {
			m.treeCursor--
		}
	case "down", "j":
		if m.treeCursor < len(entries)-1 {
			m.treeCursor++
		}
	case "enter":
		if cur.sub == nil {
			m.wiz.SelectTopic(cur.topic.ID)
		} else {
			m.wiz.SelectSubItem(cur.topic.ID, cur.sub.ID)
		}
	case "right", "l", "e":
		if cur.sub == nil {
			m.wiz.ExpandTopic(cur.topic.ID)
		}
	case "left", "h":
		if m.wiz.Expanded() == cur.topic.ID {
			m.wiz.ExpandTopic(cur.topic.ID)
			m.treeCursor = m.topicRow(cur.topic.ID)
		}
	case " ", "space":
		if cur.sub == nil {
			return m
		}
		id := filing.SubItemID(cur.sub.ID)
		m.wiz.ToggleCompletion(id, !m.wiz.IsComplete(id))
	case "tab":
		if g, ok := m.selectedGroup(); ok && len(g.Options) > 0 {
			m.focus = focusOptions
			m.optionCursor = min(m.optionCursor, len(g.Options)-1)
		}
	case "n":
		m.wiz.Next()
	}
	m.clampTree()
	return m
}

func (m FilingModel) topicRow(topicID string) int {
	for i, e := range m.entries() {
		if e.sub == nil && e.topic.ID == topicID {
			return i
		}
	}
	return 0
}

func (m FilingModel) handleOptionKey(key string) (FilingModel, tea.Cmd) {
	g, ok := m.selectedGroup()
	if !ok || len(g.Options) == 0 {
		m.focus = focusTree
		return m, nil
	}
	m.optionCursor = min(max(m.optionCursor, 0), len(g.Options)-1)
	opt := g.Options[m.optionCursor]

	switch key {
	case "up", "k":
		if m.optionCursor > 0 {
			m.optionCursor--
		}
	case "down", "j":
		if m.optionCursor < len(g.Options)-1 {
			m.optionCursor++
		}
	case " ", "space":
		m.wiz.SetSelection(g.ID, opt.ID, !m.wiz.IsSelected(g.ID, opt.ID))
	case "d":
		id := filing.GroupItemID(g.ID, opt.ID)
		m.wiz.ToggleCompletion(id, !m.wiz.IsComplete(id))
	case "a":
		m.editingAmount = true
		m.amountInput.SetValue("")
		return m, m.amountInput.Focus()
	case "tab", "esc":
		m.focus = focusTree
	case "n":
		m.focus = focusTree
		m.wiz.Next()
	}
	return m, nil
}

func (m FilingModel) handleAmountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingAmount = false
		m.amountInput.Blur()
		return m, nil
	case "enter":
		g, ok := m.selectedGroup()
		if !ok || len(g.Options) == 0 {
			m.editingAmount = false
			return m, nil
		}
		raw := strings.ReplaceAll(strings.TrimSpace(m.amountInput.Value()), ",", ".")
		amt, err := decimal.NewFromString(raw)
		if err != nil || amt.IsNegative() {
			m.setStatus(true, "Ungültiger Betrag %q.", m.amountInput.Value())
			return m, nil
		}
		opt := g.Options[min(m.optionCursor, len(g.Options)-1)]
		m.wiz.SetAmount(filing.GroupItemID(g.ID, opt.ID), amt)
		m.editingAmount = false
		m.amountInput.Blur()
		m.setStatus(false, "Betrag für %s gespeichert.", opt.Label)
		return m, nil
	}
	var cmd tea.Cmd
	m.amountInput, cmd = m.amountInput.Update(msg)
	return m, cmd
}

// ---------------------------------------------------------------------------
// Optimierung
// ---------------------------------------------------------------------------

func (m FilingModel) handleOptimizeKey(key string) FilingModel {
	kinds := filing.Kinds()
	list := m.wiz.Visible(m.currentKind())

	switch key {
	case "left", "h", "shift+tab":
		m.tab = (m.tab + len(kinds) - 1) % len(kinds)
		m.findingCursor = 0
	case "right", "l", "tab":
		m.tab = (m.tab + 1) % len(kinds)
		m.findingCursor = 0
	case "up", "k":
		if m.findingCursor > 0 {
			m.findingCursor--
		}
	case "down", "j":
		if m.findingCursor < len(list)-1 {
			m.findingCursor++
		}
	case "enter":
		if len(list) == 0 {
			return m
		}
		f := list[min(m.findingCursor, len(list)-1)]
		if err := m.wiz.NavigateTo(f); err != nil {
			m.logger.Error("navigating to finding", "id", f.ID, "category", f.Category, "err", err)
			m.setStatus(true, "%v", err)
			return m
		}
		m.focus = focusTree
	case "x", "delete":
		if len(list) == 0 {
			return m
		}
		f := list[min(m.findingCursor, len(list)-1)]
		m.wiz.Dismiss(m.currentKind(), f.ID)
		m.setStatus(false, "%q ausgeblendet.", f.Title)
		m.findingCursor = min(m.findingCursor, max(len(list)-2, 0))
	case "n":
		m.wiz.Next()
	case "esc", "b":
		m.wiz.Back()
		m.setStatus(false, "Sitzung beendet.")
	}
	return m
}

// ---------------------------------------------------------------------------
// Abgabe
// ---------------------------------------------------------------------------

func (m FilingModel) handleSubmitKey(msg tea.KeyMsg) (FilingModel, tea.Cmd) {
	switch msg.String() {
	case "m":
		m.composing = true
		return m, m.composer.Focus()
	case "s":
		if m.submitted {
			m.setStatus(false, "Bereits abgegeben.")
			return m, nil
		}
		text := "Jetzt verbindlich abgeben?"
		if n := m.wiz.Outstanding()[filing.KindError]; n > 0 {
			text = fmt.Sprintf("Es sind noch %d Fehler offen. Trotzdem abgeben?", n)
		}
		m.openDialog(actionSubmit, fmt.Sprintf("Steuererklärung %d", m.wiz.Year()), text)
		return m, nil
	case "r":
		return m.requestAppointments()
	case "esc", "b":
		m.wiz.Back()
		return m, nil
	case "up", "down", "pgup", "pgdown", "G":
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m FilingModel) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.composing = false
		m.composer.Blur()
		return m, nil
	case "enter":
		if m.sending {
			return m, nil
		}
		body := m.composer.Value()
		next, cmd := m.send("nachricht", body, false)
		if next.statusErr {
			return next, nil
		}
		next.composing = false
		next.composer.Blur()
		next.composer.SetValue("")
		return next, cmd
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

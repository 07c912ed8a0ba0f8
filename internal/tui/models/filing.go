package models

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/steuerklar/steuerklar/internal/appointments"
	"github.com/steuerklar/steuerklar/internal/auth"
	"github.com/steuerklar/steuerklar/internal/documents"
	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/messages"
	"github.com/steuerklar/steuerklar/internal/tui/components"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

// FilingDeps wires the wizard to its collaborators. Everything except
// Wizard may be left nil; the matching panel then says so.
type FilingDeps struct {
	Wizard       *filing.Wizard
	Years        []int
	Identity     auth.Identity
	Documents    *documents.Store
	Events       <-chan documents.Event
	Appointments *appointments.Service
	Messages     messages.Sink
	Logger       *log.Logger
	Explain      bool
}

// ---------------------------------------------------------------------------
// Tea messages
// ---------------------------------------------------------------------------

// Async results carry the view key they were requested for. A result whose
// key no longer matches the current view is dropped.

type docsLoadedMsg struct {
	key  string
	docs []documents.Document
	err  error
}

type apptsLoadedMsg struct {
	key      string
	overview appointments.Overview
}

type docEventMsg struct {
	event documents.Event
}

type messageSentMsg struct {
	msg        messages.Message
	err        error
	submission bool
}

// ---------------------------------------------------------------------------
// FilingModel
// ---------------------------------------------------------------------------

type focusArea int

const (
	focusTree focusArea = iota
	focusOptions
)

type dialogAction int

const (
	actionQuit dialogAction = iota
	actionSubmit
)

// FilingModel implements tea.Model for `steuerklar file`. Before a year is
// picked it shows the year list; afterwards it walks through the three
// steps of filing.Wizard:
//
//	Eingabe     -- topic tree, completion marks, group selections, documents
//	Optimierung -- errors, problems and hints with dismiss and jump-to-input
//	Abgabe      -- summary, advisor appointments, messages, submission
type FilingModel struct {
	deps   FilingDeps
	wiz    *filing.Wizard
	logger *log.Logger

	// Year picker
	yearCursor int

	// Eingabe
	treeCursor    int
	focus         focusArea
	optionCursor  int
	amountInput   textinput.Model
	editingAmount bool
	docs          []documents.Document
	docsErr       error

	// Optimierung
	tab           int // index into filing.Kinds()
	findingCursor int

	// Abgabe
	composer     textinput.Model
	composing    bool
	sending      bool
	overview     *appointments.Overview
	loadingAppts bool
	spin         spinner.Model
	submitted    bool

	activity  components.ActivityLog
	status    string
	statusErr bool

	dialog       *components.ConfirmDialog
	dialogAction dialogAction

	explain bool

	width  int
	height int
}

// NewFilingModel creates the wizard model.
func NewFilingModel(deps FilingDeps) FilingModel {
	if deps.Wizard == nil {
		deps.Wizard = filing.NewWizard(filing.Options{})
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.AccentPrimary)

	amount := textinput.New()
	amount.Placeholder = "z. B. 249,90"
	amount.CharLimit = 16
	amount.Width = 16

	composer := textinput.New()
	composer.Placeholder = "Nachricht an deine Steuerberatung"
	composer.CharLimit = 500
	composer.Width = 60

	m := FilingModel{
		deps:        deps,
		wiz:         deps.Wizard,
		logger:      logger,
		amountInput: amount,
		composer:    composer,
		spin:        s,
		activity:    components.NewActivityLog(72, 6),
		explain:     deps.Explain,
		width:       100,
		height:      40,
	}
	for i, y := range deps.Years {
		if y == m.wiz.Year() {
			m.yearCursor = i
		}
	}
	m.syncCursor()
	return m
}

// Wizard returns the wizard driven by the model.
func (m FilingModel) Wizard() *filing.Wizard {
	return m.wiz
}

// Activity returns the session activity feed.
func (m FilingModel) Activity() []components.Activity {
	return m.activity.Entries()
}

// ---------------------------------------------------------------------------
// tea.Model interface
// ---------------------------------------------------------------------------

// Init starts listening for document changes and loads the first listing
// when the wizard already has a year.
func (m FilingModel) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.loadDocs())
}

// Update processes messages and key events.
func (m FilingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 60)
		m.height = msg.Height
		m.activity.SetSize(clampWidth(m.width-6, 96), 6)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case docsLoadedMsg:
		if msg.key != m.viewKey() {
			m.logger.Debug("dropping stale document listing", "requested", msg.key, "current", m.viewKey())
			return m, nil
		}
		m.docs, m.docsErr = msg.docs, msg.err
		if msg.err != nil {
			m.logger.Warn("listing documents failed", "err", msg.err)
		}
		return m, nil

	case apptsLoadedMsg:
		if msg.key != m.viewKey() {
			m.logger.Debug("dropping stale appointments", "requested", msg.key, "current", m.viewKey())
			return m, nil
		}
		m.loadingAppts = false
		ov := msg.overview
		m.overview = &ov
		if ov.Example {
			m.addActivity("warn", "TERMINE", ov.Notice)
		}
		return m, nil

	case docEventMsg:
		ev := msg.event
		name := ev.ID
		if ev.Document != nil {
			name = ev.Document.Name
		}
		level := "info"
		if ev.Type == documents.EventRemoved {
			level = "warn"
		}
		m.addActivity(level, "BELEGE", fmt.Sprintf("%s: %s", ev.Type, name))
		return m, tea.Batch(m.listen(), m.loadDocs())

	case messageSentMsg:
		m.sending = false
		if msg.err != nil {
			m.setStatus(true, "Senden fehlgeschlagen: %v", msg.err)
			m.addActivity("error", "NACHRICHT", msg.err.Error())
			m.logger.Error("sending message failed", "topic", msg.msg.Topic, "err", msg.err)
			return m, nil
		}
		m.logger.Info("message sent", "id", msg.msg.ID, "topic", msg.msg.Topic)
		if msg.submission {
			m.submitted = true
			m.setStatus(false, "Steuererklärung %d abgegeben.", msg.msg.Year)
			m.addActivity("success", "ABGABE", msg.msg.Body)
		} else {
			m.setStatus(false, "Nachricht gesendet.")
			m.addActivity("success", "NACHRICHT", styles.TruncateWithEllipsis(msg.msg.Body, 60))
		}
		return m, nil

	case spinner.TickMsg:
		if m.loadingAppts {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Cursor blink and friends for the active text input.
	var cmd tea.Cmd
	switch {
	case m.editingAmount:
		m.amountInput, cmd = m.amountInput.Update(msg)
	case m.composing:
		m.composer, cmd = m.composer.Update(msg)
	}
	return m, cmd
}

// ---------------------------------------------------------------------------
// View key and async commands
// ---------------------------------------------------------------------------

// viewKey identifies what the user is looking at: year, step and the
// selected detail view.
func (m FilingModel) viewKey() string {
	return fmt.Sprintf("%d/%s/%s", m.wiz.Year(), m.wiz.Step(), m.wiz.Selected())
}

// settle reacts to a change of the view key: it clears per-view data and
// requests what the new view needs.
func (m FilingModel) settle(prev string) (FilingModel, tea.Cmd) {
	if m.viewKey() == prev {
		return m, nil
	}
	m.docs, m.docsErr = nil, nil
	m.syncCursor()

	if !m.wiz.InSession() {
		m.focus = focusTree
		m.tab, m.findingCursor = 0, 0
		m.overview, m.loadingAppts = nil, false
		m.submitted = false
		return m, nil
	}
	g, isGroup := m.selectedGroup()
	if !isGroup {
		m.focus = focusTree
	}
	if a, _ := m.selectedAddress(); isGroup && a.Kind == filing.AddrGroupItem {
		for i, o := range g.Options {
			if o.ID == a.Item {
				m.optionCursor = i
			}
		}
	}

	switch m.wiz.Step() {
	case filing.StepInput:
		return m, m.loadDocs()
	case filing.StepSubmit:
		return m.requestAppointments()
	}
	return m, nil
}

func (m FilingModel) loadDocs() tea.Cmd {
	store := m.deps.Documents
	if store == nil || !m.wiz.InSession() || m.wiz.Step() != filing.StepInput {
		return nil
	}
	key, year, category := m.viewKey(), m.wiz.Year(), m.wiz.Selected()
	return func() tea.Msg {
		docs, err := store.List(year, category)
		return docsLoadedMsg{key: key, docs: docs, err: err}
	}
}

func (m FilingModel) requestAppointments() (FilingModel, tea.Cmd) {
	svc := m.deps.Appointments
	if svc == nil {
		return m, nil
	}
	m.loadingAppts = true
	key, taxpayer := m.viewKey(), m.deps.Identity.ID
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		return apptsLoadedMsg{key: key, overview: svc.Get(context.Background(), taxpayer)}
	})
}

func (m FilingModel) listen() tea.Cmd {
	ch := m.deps.Events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return docEventMsg{event: ev}
	}
}

func (m FilingModel) send(topic, body string, submission bool) (FilingModel, tea.Cmd) {
	msg, err := messages.NewMessage(m.wiz.Year(), m.deps.Identity.DisplayName(), topic, body)
	if err != nil {
		m.setStatus(true, "Nachricht ist leer.")
		return m, nil
	}
	sink := m.deps.Messages
	if sink == nil {
		if submission {
			// Without a sink the submission is only recorded locally.
			m.submitted = true
			m.setStatus(false, "Steuererklärung %d abgegeben.", msg.Year)
			m.addActivity("success", "ABGABE", msg.Body)
			return m, nil
		}
		m.setStatus(true, "Kein Nachrichtenkanal eingerichtet.")
		return m, nil
	}
	m.sending = true
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return messageSentMsg{msg: msg, err: sink.Send(ctx, msg), submission: submission}
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (m *FilingModel) setStatus(isErr bool, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = isErr
}

func (m *FilingModel) addActivity(level, source, text string) {
	m.activity.Add(components.Activity{
		Time:    time.Now(),
		Level:   level,
		Source:  source,
		Message: text,
	})
}

func (m *FilingModel) openDialog(action dialogAction, title, message string) {
	d := components.NewConfirmDialog(title, message)
	m.dialog = &d
	m.dialogAction = action
}

// treeEntry is one row of the topic tree: a topic, or a sub-item of the
// expanded topic.
type treeEntry struct {
	topic filing.Topic
	sub   *filing.SubItem
}

func (e treeEntry) address() string {
	if e.sub == nil {
		return e.topic.ID
	}
	return filing.SubItemAddress(e.topic.ID, e.sub.ID).String()
}

func (m FilingModel) entries() []treeEntry {
	var out []treeEntry
	for _, t := range m.wiz.Catalog().Topics() {
		out = append(out, treeEntry{topic: t})
		if t.HasSubItems && m.wiz.Expanded() == t.ID {
			for i := range t.SubItems {
				out = append(out, treeEntry{topic: t, sub: &t.SubItems[i]})
			}
		}
	}
	return out
}

// syncCursor puts the tree cursor on the selected row, if it is visible.
func (m *FilingModel) syncCursor() {
	row := m.treeRow()
	for i, e := range m.entries() {
		if e.address() == row {
			m.treeCursor = i
			return
		}
	}
	m.clampTree()
}

func (m *FilingModel) clampTree() {
	n := len(m.entries())
	m.treeCursor = min(max(m.treeCursor, 0), max(n-1, 0))
}

func (m FilingModel) selectedAddress() (filing.Address, bool) {
	if !m.wiz.InSession() {
		return filing.Address{}, false
	}
	a, err := m.wiz.Catalog().ParseAddress(m.wiz.Selected())
	return a, err == nil
}

// selectedGroup returns the group shown by the selected detail view: the
// group hosted by a sub-item, or the group a selected option belongs to.
func (m FilingModel) selectedGroup() (filing.Group, bool) {
	a, ok := m.selectedAddress()
	if !ok {
		return filing.Group{}, false
	}
	switch a.Kind {
	case filing.AddrSubItem:
		return m.wiz.Catalog().Group(a.String())
	case filing.AddrGroupItem:
		return m.wiz.Catalog().Group(a.Group)
	}
	return filing.Group{}, false
}

// treeRow is the tree address that stands for the selection. Group options
// have no row of their own and sit on their host sub-item.
func (m FilingModel) treeRow() string {
	if a, ok := m.selectedAddress(); ok && a.Kind == filing.AddrGroupItem {
		return a.Group
	}
	return m.wiz.Selected()
}

func (m FilingModel) currentKind() filing.Kind {
	kinds := filing.Kinds()
	return kinds[min(max(m.tab, 0), len(kinds)-1)]
}

func clampWidth(w, maxW int) int {
	if w > maxW {
		return maxW
	}
	if w < 20 {
		return 20
	}
	return w
}

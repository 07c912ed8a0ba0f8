package models

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/steuerklar/steuerklar/internal/auth"
	"github.com/steuerklar/steuerklar/internal/documents"
	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/messages"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m FilingModel, keys ...string) FilingModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(FilingModel)
	}
	return m
}

// drain runs cmd (one level, batches expanded) and feeds every message
// back into the model.
func drain(t *testing.T, m FilingModel, cmd tea.Cmd) FilingModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	if msg == nil {
		return m
	}
	next, _ := m.Update(msg)
	return next.(FilingModel)
}

func newModel(t *testing.T, deps FilingDeps) FilingModel {
	t.Helper()
	if deps.Wizard == nil {
		deps.Wizard = filing.NewWizard(filing.Options{Facts: filing.DefaultFacts("Erika")})
	}
	if deps.Years == nil {
		deps.Years = []int{2024, 2023, 2022}
	}
	return NewFilingModel(deps)
}

func inSession(t *testing.T, deps FilingDeps) FilingModel {
	t.Helper()
	return press(t, newModel(t, deps), "enter")
}

type recordingSink struct {
	mu   sync.Mutex
	sent []messages.Message
	err  error
}

func (s *recordingSink) Send(_ context.Context, msg messages.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func TestYearPicker(t *testing.T) {
	m := newModel(t, FilingDeps{})
	if m.Wizard().InSession() {
		t.Fatal("fresh model should show the year picker")
	}

	m = press(t, m, "down", "enter")
	if m.Wizard().Year() != 2023 {
		t.Fatalf("year = %d, want 2023", m.Wizard().Year())
	}
	if m.Wizard().Step() != filing.StepInput {
		t.Errorf("step = %s", m.Wizard().Step())
	}
	if !strings.Contains(m.View(), "Jahr") {
		t.Error("view lacks the header")
	}
}

func TestQuitOutsideSessionIsImmediate(t *testing.T) {
	m := newModel(t, FilingDeps{})
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q on the year picker should quit")
	}
}

func TestQuitInSessionAsksFirst(t *testing.T) {
	m := inSession(t, FilingDeps{})

	next, cmd := m.Update(keyMsg("q"))
	m = next.(FilingModel)
	if cmd != nil || m.dialog == nil {
		t.Fatal("q in a session should open the confirm dialog")
	}

	m = press(t, m, "n")
	if m.dialog != nil || !m.Wizard().InSession() {
		t.Fatal("declining should close the dialog and keep the session")
	}

	m = press(t, m, "q")
	_, cmd = m.Update(keyMsg("j"))
	if cmd == nil {
		t.Fatal("confirming should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestTreeSelectExpandAndComplete(t *testing.T) {
	m := inSession(t, FilingDeps{})
	w := m.Wizard()

	// Cursor starts on "personal".
	m = press(t, m, "enter")
	if w.Expanded() != filing.TopicPersonal {
		t.Fatalf("expanded = %q", w.Expanded())
	}

	m = press(t, m, "down", "enter")
	if w.Selected() != "personal-status" {
		t.Fatalf("selected = %q", w.Selected())
	}

	m = press(t, m, "space")
	if !w.IsComplete(filing.SubItemID("status")) {
		t.Error("space should mark the sub-item done")
	}
	m = press(t, m, "space")
	if w.IsComplete(filing.SubItemID("status")) {
		t.Error("second space should clear the mark")
	}

	m = press(t, m, "left")
	if w.Expanded() != "" {
		t.Errorf("left should collapse, expanded = %q", w.Expanded())
	}
	if m.treeCursor != 0 {
		t.Errorf("cursor = %d, want the topic row", m.treeCursor)
	}

	m = press(t, m, "right")
	if w.Expanded() != filing.TopicPersonal {
		t.Errorf("right should expand, expanded = %q", w.Expanded())
	}
	_ = m
}

func TestGroupOptions(t *testing.T) {
	m := inSession(t, FilingDeps{})
	w := m.Wizard()
	w.SelectTopic(filing.TopicOther)
	w.SelectSubItem(filing.TopicOther, "income")

	m = press(t, m, "tab")
	if m.focus != focusOptions {
		t.Fatal("tab on a group view should focus the options")
	}

	m = press(t, m, "space")
	if !w.IsSelected(filing.GroupOtherIncome, "interest") {
		t.Fatal("space should select the first option")
	}

	m = press(t, m, "d")
	if !w.IsComplete(filing.GroupItemID(filing.GroupOtherIncome, "interest")) {
		t.Error("d should mark the option done")
	}

	m = press(t, m, "a", "249,90", "enter")
	got := w.Amount(filing.GroupItemID(filing.GroupOtherIncome, "interest"))
	if !got.Equal(decimal.RequireFromString("249.90")) {
		t.Errorf("amount = %s", got)
	}
	if m.editingAmount {
		t.Error("enter should close the amount input")
	}

	m = press(t, m, "a", "abc", "enter")
	if !m.statusErr || !m.editingAmount {
		t.Error("invalid amount should keep the input open with an error")
	}
	m = press(t, m, "esc", "esc")
	if m.editingAmount || m.focus != focusTree {
		t.Error("esc should leave the input, then the options")
	}
}

func TestOptimizeNavigateAndDismiss(t *testing.T) {
	m := inSession(t, FilingDeps{})
	w := m.Wizard()

	m = press(t, m, "2")
	if w.Step() != filing.StepOptimize {
		t.Fatalf("step = %s", w.Step())
	}
	before := w.Outstanding()[filing.KindError]
	if before == 0 {
		t.Fatal("default session should have errors")
	}
	if !strings.Contains(m.View(), "Fehler") {
		t.Error("optimize view lacks the tab bar")
	}

	m = press(t, m, "x")
	if got := w.Outstanding()[filing.KindError]; got != before-1 {
		t.Errorf("errors after dismiss = %d, want %d", got, before-1)
	}

	// First remaining error is the insurance item selected by default.
	m = press(t, m, "enter")
	if w.Step() != filing.StepInput {
		t.Fatalf("enter should jump to Eingabe, step = %s", w.Step())
	}
	if w.Selected() != "general-expenses-insurance" {
		t.Errorf("selected = %q", w.Selected())
	}
	if w.Expanded() != filing.TopicGeneral {
		t.Errorf("expanded = %q", w.Expanded())
	}
	_ = m
}

func TestGroupItemFindingOpensOptions(t *testing.T) {
	m := inSession(t, FilingDeps{})
	w := m.Wizard()
	if !w.IsSelected(filing.GroupGeneralExpenses, "insurance") {
		t.Fatal("insurance should be selected by default")
	}

	// Second error is insurance-empty.
	m = press(t, m, "2", "down", "enter")
	if w.Selected() != "general-expenses-insurance" {
		t.Fatalf("selected = %q", w.Selected())
	}
	if got := m.entries()[m.treeCursor].address(); got != filing.GroupGeneralExpenses {
		t.Errorf("cursor row = %q, want the host sub-item", got)
	}
	if !strings.Contains(m.View(), "Was trifft auf dich zu?") {
		t.Error("options panel not rendered for a group item")
	}

	m = press(t, m, "tab")
	if m.focus != focusOptions {
		t.Fatalf("tab should focus the options, focus = %v", m.focus)
	}
	m = press(t, m, "space")
	if w.IsSelected(filing.GroupGeneralExpenses, "insurance") {
		t.Error("space should toggle the option the finding points at")
	}
	if !w.IsSelected(filing.GroupGeneralExpenses, "utilities") {
		t.Error("other options must stay selected")
	}
}

func TestOptimizeTabsWrap(t *testing.T) {
	m := press(t, inSession(t, FilingDeps{}), "2")
	m = press(t, m, "left")
	if m.currentKind() != filing.KindHint {
		t.Errorf("left from errors should wrap to hints, got %s", m.currentKind())
	}
	m = press(t, m, "right")
	if m.currentKind() != filing.KindError {
		t.Errorf("right should wrap back, got %s", m.currentKind())
	}
}

func TestBackFromOptimizeEndsSession(t *testing.T) {
	m := press(t, inSession(t, FilingDeps{}), "2", "esc")
	if m.Wizard().InSession() {
		t.Fatal("esc on Optimierung should end the session")
	}
	if !strings.Contains(m.View(), "Für welches Jahr") {
		t.Error("expected the year picker")
	}
}

func TestSubmitWithoutSink(t *testing.T) {
	m := press(t, inSession(t, FilingDeps{}), "3")
	if m.Wizard().Step() != filing.StepSubmit {
		t.Fatalf("step = %s", m.Wizard().Step())
	}

	m = press(t, m, "s")
	if m.dialog == nil {
		t.Fatal("s should ask for confirmation")
	}
	m = press(t, m, "j")
	if !m.submitted {
		t.Fatal("submission should not be blocked by open errors")
	}
	if len(m.Activity()) != 1 {
		t.Errorf("activity = %d entries", len(m.Activity()))
	}
}

func TestSubmitAndMessageThroughSink(t *testing.T) {
	sink := &recordingSink{}
	deps := FilingDeps{
		Messages: sink,
		Identity: auth.Identity{Name: "Erika Mustermann"},
	}
	m := press(t, inSession(t, deps), "3", "m", "Bitte Termin bestätigen")

	next, cmd := m.Update(keyMsg("enter"))
	m = drain(t, next.(FilingModel), cmd)
	if m.composing {
		t.Error("composer should close after sending")
	}

	m = press(t, m, "s")
	next, cmd = m.Update(keyMsg("j"))
	m = drain(t, next.(FilingModel), cmd)
	if !m.submitted {
		t.Fatal("submission not recorded")
	}

	if len(sink.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sink.sent))
	}
	if sink.sent[0].Body != "Bitte Termin bestätigen" || sink.sent[0].Author != "Erika Mustermann" {
		t.Errorf("message = %+v", sink.sent[0])
	}
	if sink.sent[1].Topic != "abgabe" || sink.sent[1].Year != 2024 {
		t.Errorf("submission = %+v", sink.sent[1])
	}
}

func TestSendFailureIsReported(t *testing.T) {
	sink := &recordingSink{err: errors.New("stream down")}
	m := press(t, inSession(t, FilingDeps{Messages: sink}), "3", "m", "Hallo")

	next, cmd := m.Update(keyMsg("enter"))
	m = drain(t, next.(FilingModel), cmd)
	if !m.statusErr || !strings.Contains(m.status, "stream down") {
		t.Errorf("status = %q", m.status)
	}
	if m.submitted {
		t.Error("a failed message must not count as submission")
	}
}

func TestEmptyMessageIsRejected(t *testing.T) {
	m := press(t, inSession(t, FilingDeps{Messages: &recordingSink{}}), "3", "m")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(FilingModel)
	if cmd != nil {
		t.Error("empty message should not be sent")
	}
	if !m.composing || !m.statusErr {
		t.Error("composer should stay open with an error")
	}
}

func TestStaleDocumentListingIsDropped(t *testing.T) {
	m := inSession(t, FilingDeps{})
	docs := []documents.Document{{Name: "alt.pdf"}}

	next, _ := m.Update(docsLoadedMsg{key: "2023/Eingabe/personal", docs: docs})
	m = next.(FilingModel)
	if m.docs != nil {
		t.Fatal("listing for another view was applied")
	}

	next, _ = m.Update(docsLoadedMsg{key: m.viewKey(), docs: docs})
	m = next.(FilingModel)
	if len(m.docs) != 1 {
		t.Fatal("listing for the current view was dropped")
	}

	// Selecting another topic clears it.
	m = press(t, m, "down", "enter")
	if m.docs != nil {
		t.Error("docs survived a view change")
	}
}

func TestDocumentsLoadForSelection(t *testing.T) {
	store, err := documents.NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.Upload(context.Background(), strings.NewReader("x"),
		documents.Meta{Name: "ausweis.pdf", Year: 2024, Category: "personal-status"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	m := newModel(t, FilingDeps{Documents: store})
	next, cmd := m.Update(keyMsg("enter"))
	m = drain(t, next.(FilingModel), cmd)
	if len(m.docs) != 1 || m.docs[0].Name != "ausweis.pdf" {
		t.Fatalf("docs for topic = %+v", m.docs)
	}

	next, cmd = m.Update(keyMsg("enter"))
	m = drain(t, next.(FilingModel), cmd)
	next, cmd = m.Update(keyMsg("down"))
	m = drain(t, next.(FilingModel), cmd)
	next, cmd = m.Update(keyMsg("down"))
	m = drain(t, next.(FilingModel), cmd)
	next, cmd = m.Update(keyMsg("enter"))
	m = drain(t, next.(FilingModel), cmd)
	if m.Wizard().Selected() != "personal-address" {
		t.Fatalf("selected = %q", m.Wizard().Selected())
	}
	if len(m.docs) != 0 {
		t.Errorf("docs for personal-address = %+v", m.docs)
	}
	if !strings.Contains(m.View(), "Belege (0)") {
		t.Error("view lacks the documents section")
	}
}

func TestDocumentEventsFeedActivity(t *testing.T) {
	events := make(chan documents.Event, 1)
	m := inSession(t, FilingDeps{Events: events})

	events <- documents.Event{Type: documents.EventAdded, ID: "x", Document: &documents.Document{Name: "beleg.pdf"}}
	m = drain(t, m, m.listen())
	if len(m.Activity()) != 1 || !strings.Contains(m.Activity()[0].Message, "beleg.pdf") {
		t.Fatalf("activity = %+v", m.Activity())
	}

	close(events)
	m = drain(t, m, m.listen())
	if len(m.Activity()) != 1 {
		t.Error("closed channel should not add activity")
	}
}

func TestViewsRenderEveryStep(t *testing.T) {
	m := newModel(t, FilingDeps{Explain: true})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(FilingModel)

	for _, keys := range [][]string{nil, {"enter"}, {"2"}, {"3"}} {
		m = press(t, m, keys...)
		if m.View() == "" {
			t.Errorf("empty view after %v", keys)
		}
	}
}

package filing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func newSession(t *testing.T) *Wizard {
	t.Helper()
	w := NewWizard(Options{Facts: DefaultFacts("Erika Mustermann")})
	w.SelectYear(2024)
	if !w.InSession() {
		t.Fatal("expected session after SelectYear")
	}
	return w
}

func TestToggleCompletionIsIdempotent(t *testing.T) {
	c := NewCompletionSet()

	c.Toggle("relocation", true)
	once := c.IDs()
	c.Toggle("relocation", true)
	if !reflect.DeepEqual(once, c.IDs()) {
		t.Fatalf("double add: %v vs %v", once, c.IDs())
	}

	c.Toggle("relocation", false)
	removed := c.IDs()
	c.Toggle("relocation", false)
	if !reflect.DeepEqual(removed, c.IDs()) || c.Len() != 0 {
		t.Fatalf("double remove: %v", c.IDs())
	}
}

func TestNoSessionIsInert(t *testing.T) {
	w := NewWizard(Options{})

	if w.Next() || w.Back() || w.JumpTo(StepSubmit) {
		t.Fatal("step changes require a selected year")
	}
	w.ToggleCompletion("relocation", true)
	w.SetSelection(GroupOtherIncome, "interest", true)
	w.Dismiss(KindError, "gross-wage-empty")
	if w.Findings().Total() != 0 {
		t.Fatal("no findings outside a session")
	}
	if err := w.NavigateToCategory("employee"); err == nil {
		t.Fatal("navigate outside a session should fail")
	}
	if w.CanSubmit() {
		t.Fatal("cannot submit without a year")
	}
}

func TestStepWorkflow(t *testing.T) {
	w := newSession(t)

	if w.Step() != StepInput {
		t.Fatalf("step = %v", w.Step())
	}
	if w.Back() {
		t.Fatal("Back on Input is a no-op")
	}
	w.Next()
	w.Next()
	if w.Step() != StepSubmit {
		t.Fatalf("step = %v", w.Step())
	}
	if w.Next() {
		t.Fatal("Next on Submit is a no-op")
	}
	w.Back()
	if w.Step() != StepOptimize {
		t.Fatalf("step = %v", w.Step())
	}

	// Backing out of Optimize cancels the session.
	w.Back()
	if w.InSession() || w.Year() != 0 {
		t.Fatal("back from Optimize should return to the year picker")
	}
}

func TestJumpToAndSelectYearReset(t *testing.T) {
	w := newSession(t)

	if !w.JumpTo(StepSubmit) || w.Step() != StepSubmit {
		t.Fatalf("jump: step = %v", w.Step())
	}
	w.ToggleCompletion("relocation", true)

	w.SelectYear(2024)
	if w.Step() != StepInput {
		t.Fatalf("re-selecting the year resets to Input, got %v", w.Step())
	}
	if !w.IsComplete("relocation") {
		t.Fatal("re-selecting the active year keeps session data")
	}

	w.SelectYear(2023)
	if w.IsComplete("relocation") {
		t.Fatal("a different year starts a fresh session")
	}
	if !w.IsComplete("wage-statements") {
		t.Fatal("fresh session is seeded")
	}

	w.SelectYear(0)
	if w.InSession() {
		t.Fatal("year 0 exits the session")
	}
}

func TestReselectingYearFromSubmitCollapses(t *testing.T) {
	w := newSession(t)
	w.SelectTopic("employee")
	w.Next()
	w.Next()
	if w.Step() != StepSubmit || w.Expanded() != "employee" {
		t.Fatalf("step=%v expanded=%q", w.Step(), w.Expanded())
	}

	w.SelectYear(2024)
	if w.Step() != StepInput {
		t.Fatalf("step = %v", w.Step())
	}
	if w.Expanded() != "" {
		t.Fatalf("returning to Input must collapse, expanded = %q", w.Expanded())
	}
}

func TestYearStepReaction(t *testing.T) {
	tests := []struct {
		name string
		act  func(w *Wizard)
		want string
	}{
		{
			name: "same year while on input",
			act:  func(w *Wizard) { w.SelectYear(2024) },
			want: "employee",
		},
		{
			name: "optimize and back to input",
			act:  func(w *Wizard) { w.Next(); w.JumpTo(StepInput) },
			want: "",
		},
		{
			name: "step change away from input",
			act:  func(w *Wizard) { w.Next() },
			want: "employee",
		},
		{
			name: "navigate to a finding",
			act: func(w *Wizard) {
				w.Next()
				if err := w.NavigateToCategory("employee-commute"); err != nil {
					t.Fatal(err)
				}
			},
			want: "employee",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSession(t)
			w.SelectTopic("employee")
			tt.act(w)
			if got := w.Expanded(); got != tt.want {
				t.Errorf("expanded = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelectTopicThenSubItem(t *testing.T) {
	w := newSession(t)

	w.SelectTopic("employee")
	if w.Expanded() != "employee" || w.Selected() != "employee" {
		t.Fatalf("expanded=%q selected=%q", w.Expanded(), w.Selected())
	}
	w.SelectSubItem("employee", "commute")
	if w.Selected() != "employee-commute" || w.Expanded() != "employee" {
		t.Fatalf("expanded=%q selected=%q", w.Expanded(), w.Selected())
	}
}

func TestSelectionScenario(t *testing.T) {
	w := newSession(t)

	w.SetSelection(GroupOtherIncome, "interest", true)
	if !contains(w.Findings().Errors, "interest-empty") {
		t.Fatal("expected interest-empty")
	}
	w.SetSelection(GroupOtherIncome, "interest", false)
	if contains(w.Findings().Errors, "interest-empty") {
		t.Fatal("interest-empty should be gone")
	}
}

func TestDeselectionKeepsCompletion(t *testing.T) {
	w := newSession(t)
	id := GroupItemID(GroupOtherIncome, "interest")

	w.SetSelection(GroupOtherIncome, "interest", true)
	w.ToggleCompletion(id, true)
	w.SetSelection(GroupOtherIncome, "interest", false)

	if !w.IsComplete(id) {
		t.Fatal("de-selection must leave the completion flag in place")
	}
}

func TestDismissSuppressesExactlyOne(t *testing.T) {
	w := newSession(t)
	w.ToggleCompletion("relocation", true)

	before := w.Visible(KindError)
	w.Dismiss(KindError, "relocation-street-empty")
	after := w.Visible(KindError)

	if len(after) != len(before)-1 {
		t.Fatalf("visible %d -> %d", len(before), len(after))
	}
	if contains(after, "relocation-street-empty") {
		t.Fatal("dismissed id still visible")
	}
	for _, f := range before {
		if f.ID != "relocation-street-empty" && !contains(after, f.ID) {
			t.Errorf("%s disappeared", f.ID)
		}
	}
	if !contains(w.Findings().Errors, "relocation-street-empty") {
		t.Fatal("raw findings ignore dismissal")
	}
}

func TestDismissalAndNaturalResolution(t *testing.T) {
	w := newSession(t)
	w.ToggleCompletion("wage-statements", false)
	if !contains(w.Visible(KindError), "gross-wage-empty") {
		t.Fatal("expected gross-wage-empty")
	}

	w.Dismiss(KindError, "gross-wage-empty")
	w.ToggleCompletion("wage-statements", true)
	if contains(w.Findings().Errors, "gross-wage-empty") {
		t.Fatal("completion resolves the raw finding")
	}
	if contains(w.Visible(KindError), "gross-wage-empty") {
		t.Fatal("not visible either way")
	}

	w.ToggleCompletion("wage-statements", false)
	if !contains(w.Findings().Errors, "gross-wage-empty") {
		t.Fatal("raw finding comes back")
	}
	if contains(w.Visible(KindError), "gross-wage-empty") {
		t.Fatal("still dismissed by id")
	}

	// Dismissal survives a round trip through Input.
	w.Next()
	w.JumpTo(StepInput)
	w.Next()
	if contains(w.Visible(KindError), "gross-wage-empty") {
		t.Fatal("dismissal lasts for the session")
	}

	// A new session forgets it.
	w.SelectYear(2023)
	w.ToggleCompletion("wage-statements", false)
	if !contains(w.Visible(KindError), "gross-wage-empty") {
		t.Fatal("new session starts with no dismissals")
	}
}

func TestNavigateToFinding(t *testing.T) {
	w := newSession(t)
	w.SetSelection(GroupOtherIncome, "interest", true)
	w.SelectTopic("personal")
	w.Next()

	var target Finding
	for _, f := range w.Findings().Errors {
		if f.ID == "interest-empty" {
			target = f
		}
	}
	if err := w.NavigateTo(target); err != nil {
		t.Fatal(err)
	}
	if w.Step() != StepInput {
		t.Fatalf("step = %v", w.Step())
	}
	if w.Expanded() != "other" {
		t.Fatalf("expanded = %q", w.Expanded())
	}
	if w.Selected() != "other-income-interest" {
		t.Fatalf("selected = %q", w.Selected())
	}

	err := w.NavigateToCategory("bogus-category")
	if !errors.Is(err, ErrMalformedAddress) {
		t.Fatalf("err = %v", err)
	}
}

func TestNavigateToExpandsEvenWhenAlreadyExpanded(t *testing.T) {
	w := newSession(t)
	w.SelectTopic("employee")
	w.Next()

	if err := w.NavigateToCategory("employee-relocation"); err != nil {
		t.Fatal(err)
	}
	if w.Expanded() != "employee" {
		t.Fatalf("navigate must not toggle the expansion off, got %q", w.Expanded())
	}
}

func TestSetAmountSilencesZeroAmountProblem(t *testing.T) {
	w := newSession(t)
	id := GroupItemID(GroupGeneralExpenses, "insurance")
	w.ToggleCompletion(id, true)
	if !contains(w.Findings().Problems, "insurance-amount-zero") {
		t.Fatal("expected insurance-amount-zero")
	}
	w.SetAmount(id, decimal.NewFromInt(300))
	if contains(w.Findings().Problems, "insurance-amount-zero") {
		t.Fatal("amount recorded")
	}
	if w.Amount(id).IntPart() != 300 {
		t.Fatalf("amount = %s", w.Amount(id))
	}
}

func TestSnapshot(t *testing.T) {
	w := newSession(t)
	w.SelectTopic("employee")
	w.Dismiss(KindHint, "commute-hint")

	s := w.Snapshot()
	if s.Year != 2024 || s.Step != "Eingabe" || s.Expanded != "employee" || s.Dismissed != 1 {
		t.Fatalf("snapshot = %+v", s)
	}
	if !reflect.DeepEqual(s.Selections[GroupGeneralExpenses], []string{"insurance", "utilities"}) {
		t.Fatalf("selections = %v", s.Selections)
	}
	if !reflect.DeepEqual(s.Completed, []ItemID{"wage-statements"}) {
		t.Fatalf("completed = %v", s.Completed)
	}
}

func TestSubmitIsNotGated(t *testing.T) {
	w := newSession(t)
	w.JumpTo(StepSubmit)
	if len(w.Findings().Errors) == 0 {
		t.Fatal("fresh session has errors")
	}
	if !w.CanSubmit() {
		t.Fatal("outstanding errors do not block submission")
	}
}

func TestOutstandingTracksDismissals(t *testing.T) {
	w := newSession(t)

	before := w.Outstanding()
	all := w.Findings()
	for _, k := range Kinds() {
		if before[k] != len(all.ByKind(k)) {
			t.Fatalf("%s: outstanding %d, findings %d", k, before[k], len(all.ByKind(k)))
		}
	}
	if before[KindError] == 0 {
		t.Fatal("a fresh session should have open errors")
	}

	first := all.ByKind(KindError)[0]
	w.Dismiss(KindError, first.ID)
	w.Dismiss(KindError, first.ID)

	after := w.Outstanding()
	if after[KindError] != before[KindError]-1 {
		t.Errorf("errors after dismiss = %d, want %d", after[KindError], before[KindError]-1)
	}
	if after[KindProblem] != before[KindProblem] || after[KindHint] != before[KindHint] {
		t.Errorf("other kinds changed: %v -> %v", before, after)
	}
}

package filing

import (
	"fmt"
	"maps"

	"github.com/shopspring/decimal"
)

// Options configures a Wizard.
type Options struct {
	Catalog *Catalog
	Facts   Facts
	// SeedCompleted is applied to the CompletionSet of every new session.
	SeedCompleted []ItemID
	// SeedSelections replaces the catalog's group defaults when non-nil.
	SeedSelections map[string][]string
}

// DefaultSeed is the completion seed used when Options leaves it nil.
var DefaultSeed = []ItemID{SubItemID("wage-statements")}

// Wizard is the whole state of one Steuererklärung session: selected year,
// step, navigation, completion, selections and dismissed findings. All
// mutation goes through its methods; findings are always derived, never
// stored.
type Wizard struct {
	catalog *Catalog
	seed    []ItemID
	seedSel map[string][]string
	base    Facts

	year      int // 0 while no filing year is selected
	steps     StepController
	nav       *Navigation
	done      *CompletionSet
	sel       *SelectionSets
	dismissed *DismissedSet
	facts     Facts

	// last (year, step) pair seen by reconcile
	seenYear int
	seenStep Step
}

// NewWizard returns a wizard with no year selected.
func NewWizard(opts Options) *Wizard {
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.SeedCompleted == nil {
		opts.SeedCompleted = DefaultSeed
	}
	if opts.Facts.Amounts == nil {
		opts.Facts.Amounts = make(map[ItemID]decimal.Decimal)
	}
	return &Wizard{
		catalog: opts.Catalog,
		seed:    opts.SeedCompleted,
		seedSel: opts.SeedSelections,
		base:    opts.Facts,
		nav:     NewNavigation(opts.Catalog),
	}
}

// Catalog returns the topic catalog.
func (w *Wizard) Catalog() *Catalog {
	return w.catalog
}

// ---------------------------------------------------------------------------
// Session lifecycle
// ---------------------------------------------------------------------------

// SelectYear selects a filing year and returns to the Input step. Choosing
// a different year starts a fresh session; re-selecting the active year
// keeps the session data. A year <= 0 exits the session.
func (w *Wizard) SelectYear(year int) {
	if year <= 0 {
		w.ExitSession()
		return
	}
	if year != w.year {
		w.startSession()
	}
	w.year = year
	w.steps.Reset()
	w.reconcile()
}

// ExitSession discards all session state and returns to the year picker.
func (w *Wizard) ExitSession() {
	w.year = 0
	w.steps.Reset()
	w.nav = NewNavigation(w.catalog)
	w.done = nil
	w.sel = nil
	w.dismissed = nil
	w.facts = Facts{}
	w.reconcile()
}

// Year returns the selected filing year, or 0.
func (w *Wizard) Year() int {
	return w.year
}

// InSession reports whether a filing year is selected.
func (w *Wizard) InSession() bool {
	return w.year != 0
}

func (w *Wizard) startSession() {
	w.nav = NewNavigation(w.catalog)
	w.done = NewCompletionSet(w.seed...)
	if w.seedSel == nil {
		w.sel = DefaultSelections(w.catalog)
	} else {
		w.sel = NewSelectionSets()
		for g, items := range w.seedSel {
			for _, it := range items {
				w.sel.Set(g, it, true)
			}
		}
	}
	w.dismissed = NewDismissedSet()
	w.facts = w.base
	w.facts.Amounts = maps.Clone(w.base.Amounts)
}

// reconcile reacts to changes of the (year, step) pair: whenever either one
// changes and the wizard ends up on Input with a year selected, every
// expanded topic collapses.
func (w *Wizard) reconcile() {
	step := w.steps.Current()
	changed := w.year != w.seenYear || step != w.seenStep
	if changed && w.year != 0 && step == StepInput {
		w.nav.CollapseAll()
	}
	w.seenYear, w.seenStep = w.year, step
}

// ---------------------------------------------------------------------------
// Steps
// ---------------------------------------------------------------------------

// Step returns the active step.
func (w *Wizard) Step() Step {
	return w.steps.Current()
}

// Next advances to the adjacent step. It reports whether the step changed.
func (w *Wizard) Next() bool {
	if !w.InSession() {
		return false
	}
	changed := w.steps.Next()
	w.reconcile()
	return changed
}

// Back steps back. Backing out of Optimize cancels the whole session and
// returns to the year picker; from Submit it returns to Optimize; on Input
// it does nothing.
func (w *Wizard) Back() bool {
	if !w.InSession() {
		return false
	}
	if w.steps.Current() == StepOptimize {
		w.ExitSession()
		return true
	}
	changed := w.steps.Prev()
	w.reconcile()
	return changed
}

// JumpTo switches directly to a step. It only works once a year is
// selected.
func (w *Wizard) JumpTo(s Step) bool {
	if !w.InSession() {
		return false
	}
	changed := w.steps.Jump(s)
	w.reconcile()
	return changed
}

// CanSubmit reports whether the filing may be finalized. Outstanding
// errors do not block submission.
func (w *Wizard) CanSubmit() bool {
	return w.InSession()
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// Selected returns the selected topic or composite detail id.
func (w *Wizard) Selected() string {
	return w.nav.Selected()
}

// Expanded returns the expanded topic id or "".
func (w *Wizard) Expanded() string {
	return w.nav.Expanded()
}

// SelectTopic selects a topic, expanding it if it has sub-items.
func (w *Wizard) SelectTopic(topicID string) {
	w.nav.SelectTopic(topicID)
}

// ExpandTopic toggles the expansion of a topic.
func (w *Wizard) ExpandTopic(topicID string) {
	w.nav.ExpandTopic(topicID)
}

// SelectSubItem selects a sub-item detail view.
func (w *Wizard) SelectSubItem(topicID, subID string) {
	w.nav.SelectSubItem(topicID, subID)
}

// NavigateTo jumps back to the input screen a finding originated from: it
// expands the finding's topic, switches to Input and selects the category.
func (w *Wizard) NavigateTo(f Finding) error {
	return w.NavigateToCategory(f.Category)
}

// NavigateToCategory is NavigateTo for a raw category string.
func (w *Wizard) NavigateToCategory(category string) error {
	if !w.InSession() {
		return fmt.Errorf("navigate to %q: no filing year selected", category)
	}
	addr, err := w.catalog.ParseAddress(category)
	if err != nil {
		return fmt.Errorf("navigate to finding: %w", err)
	}
	// Record the step change first so reconcile does not collapse the
	// topic that is about to be expanded.
	w.steps.Jump(StepInput)
	w.seenYear, w.seenStep = w.year, StepInput
	w.nav.expandOnly(addr.TopicID())
	w.nav.SelectAddress(addr)
	return nil
}

// ---------------------------------------------------------------------------
// Completion and selection
// ---------------------------------------------------------------------------

// ToggleCompletion flags an item as done or not done.
func (w *Wizard) ToggleCompletion(id ItemID, done bool) {
	if w.done == nil {
		return
	}
	w.done.Toggle(id, done)
}

// IsComplete reports whether the item is flagged done.
func (w *Wizard) IsComplete(id ItemID) bool {
	return w.done.Has(id)
}

// SetSelection opts into or out of an optional sub-topic of a group.
func (w *Wizard) SetSelection(groupID, item string, selected bool) {
	if w.sel == nil {
		return
	}
	w.sel.Set(groupID, item, selected)
}

// IsSelected reports whether the group item is opted into.
func (w *Wizard) IsSelected(groupID, item string) bool {
	return w.sel.Has(groupID, item)
}

// SetAmount records an amount for a group item.
func (w *Wizard) SetAmount(id ItemID, amt decimal.Decimal) {
	if !w.InSession() {
		return
	}
	w.facts.Amounts[id] = amt
}

// Amount returns the recorded amount of a group item.
func (w *Wizard) Amount(id ItemID) decimal.Decimal {
	return w.facts.Amounts[id]
}

// ---------------------------------------------------------------------------
// Findings
// ---------------------------------------------------------------------------

// Findings derives all findings from the current state, ignoring
// dismissals. Outside a session there are none.
func (w *Wizard) Findings() Findings {
	if !w.InSession() {
		return Findings{}
	}
	return NewEngine(w.catalog, w.facts).Detect(w.done, w.sel)
}

// Visible returns the findings of a kind that were not dismissed.
func (w *Wizard) Visible(kind Kind) []Finding {
	return w.dismissed.Visible(kind, w.Findings().ByKind(kind))
}

// VisibleFindings returns all non-dismissed findings.
func (w *Wizard) VisibleFindings() Findings {
	all := w.Findings()
	return Findings{
		Errors:   w.dismissed.Visible(KindError, all.Errors),
		Problems: w.dismissed.Visible(KindProblem, all.Problems),
		Hints:    w.dismissed.Visible(KindHint, all.Hints),
	}
}

// Outstanding counts the visible findings per kind, for badges on the
// Optimize tabs.
func (w *Wizard) Outstanding() map[Kind]int {
	v := w.VisibleFindings()
	return map[Kind]int{
		KindError:   len(v.Errors),
		KindProblem: len(v.Problems),
		KindHint:    len(v.Hints),
	}
}

// Dismiss hides a finding for the rest of the session.
func (w *Wizard) Dismiss(kind Kind, id string) {
	if w.dismissed == nil {
		return
	}
	w.dismissed.Dismiss(kind, id)
}

// Snapshot is a read-only view of the wizard state.
type Snapshot struct {
	Year       int                 `json:"year" yaml:"year"`
	Step       string              `json:"step" yaml:"step"`
	Selected   string              `json:"selected" yaml:"selected"`
	Expanded   string              `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Completed  []ItemID            `json:"completed" yaml:"completed"`
	Selections map[string][]string `json:"selections" yaml:"selections"`
	Dismissed  int                 `json:"dismissed" yaml:"dismissed"`
}

// Snapshot captures the current state.
func (w *Wizard) Snapshot() Snapshot {
	s := Snapshot{
		Year:       w.year,
		Step:       w.steps.Current().String(),
		Selected:   w.nav.Selected(),
		Expanded:   w.nav.Expanded(),
		Completed:  w.done.IDs(),
		Selections: make(map[string][]string),
		Dismissed:  w.dismissed.Len(),
	}
	for _, g := range w.catalog.Groups() {
		if items := w.sel.Items(g.ID); len(items) > 0 {
			s.Selections[g.ID] = items
		}
	}
	return s
}

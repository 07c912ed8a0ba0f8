package filing

// Step enumerates the three stages of the filing workflow.
type Step int

const (
	StepInput    Step = iota // 0
	StepOptimize             // 1
	StepSubmit               // 2
)

const stepCount = 3

// String returns the display label of the step.
func (s Step) String() string {
	switch s {
	case StepInput:
		return "Eingabe"
	case StepOptimize:
		return "Optimierung"
	case StepSubmit:
		return "Abgabe"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the known steps.
func (s Step) Valid() bool {
	return s >= StepInput && s < stepCount
}

// StepLabels returns the labels shown in the progress indicator.
func StepLabels() []string {
	return []string{StepInput.String(), StepOptimize.String(), StepSubmit.String()}
}

// StepController moves between adjacent steps. Next and Prev are no-ops at
// the boundaries; there is no wraparound.
type StepController struct {
	current Step
}

// Current returns the active step.
func (sc *StepController) Current() Step {
	return sc.current
}

// Next advances one step. It reports whether the step changed.
func (sc *StepController) Next() bool {
	if sc.current >= StepSubmit {
		return false
	}
	sc.current++
	return true
}

// Prev goes back one step. It reports whether the step changed.
func (sc *StepController) Prev() bool {
	if sc.current <= StepInput {
		return false
	}
	sc.current--
	return true
}

// Jump sets the step directly. Unknown steps are ignored.
func (sc *StepController) Jump(s Step) bool {
	if !s.Valid() {
		return false
	}
	sc.current = s
	return true
}

// Reset returns to the Input step.
func (sc *StepController) Reset() {
	sc.current = StepInput
}

// Navigation tracks which topic (or composite detail id) is selected and
// which single topic node is expanded. Expansion is exclusive: expanding
// one topic collapses every other.
type Navigation struct {
	catalog  *Catalog
	selected string
	expanded string // "" when nothing is expanded
}

// NewNavigation returns navigation state with the first topic selected and
// nothing expanded.
func NewNavigation(c *Catalog) *Navigation {
	n := &Navigation{catalog: c}
	if topics := c.Topics(); len(topics) > 0 {
		n.selected = topics[0].ID
	}
	return n
}

// Selected returns the selected topic id or composite detail id.
func (n *Navigation) Selected() string {
	return n.selected
}

// Expanded returns the expanded topic id, or "" when none is expanded.
func (n *Navigation) Expanded() string {
	return n.expanded
}

// IsExpanded reports whether topicID is the expanded topic.
func (n *Navigation) IsExpanded(topicID string) bool {
	return n.expanded != "" && n.expanded == topicID
}

// SelectTopic selects a topic and, if it has sub-items, expands it
// exclusively.
func (n *Navigation) SelectTopic(topicID string) {
	n.selected = topicID
	if t, ok := n.catalog.Topic(topicID); ok && t.HasSubItems {
		n.expanded = topicID
	}
}

// ExpandTopic toggles the expand affordance of a topic: an expanded topic
// collapses, any other known topic becomes the only expanded one. Unknown
// ids are ignored.
func (n *Navigation) ExpandTopic(topicID string) {
	if n.expanded == topicID {
		n.expanded = ""
		return
	}
	if _, ok := n.catalog.Topic(topicID); ok {
		n.expanded = topicID
	}
}

// SelectSubItem selects the detail view "<topic>-<sub>". Expansion is left
// untouched.
func (n *Navigation) SelectSubItem(topicID, subID string) {
	n.selected = SubItemAddress(topicID, subID).String()
}

// SelectAddress selects an arbitrary encoded address without touching
// expansion.
func (n *Navigation) SelectAddress(a Address) {
	n.selected = a.String()
}

// CollapseAll clears the expansion.
func (n *Navigation) CollapseAll() {
	n.expanded = ""
}

// expandOnly expands topicID exclusively, regardless of its current state.
func (n *Navigation) expandOnly(topicID string) {
	n.expanded = topicID
}

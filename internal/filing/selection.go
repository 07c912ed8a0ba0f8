package filing

import "sort"

// SelectionSets records, per multi-select group, the optional sub-topics the
// user opted into.
//
// Removing an item never clears its completion flag; see DESIGN.md.
type SelectionSets struct {
	groups map[string]map[string]struct{}
}

// NewSelectionSets returns empty selection sets.
func NewSelectionSets() *SelectionSets {
	return &SelectionSets{groups: make(map[string]map[string]struct{})}
}

// DefaultSelections returns selection sets pre-seeded with each group's
// catalog defaults.
func DefaultSelections(c *Catalog) *SelectionSets {
	s := NewSelectionSets()
	for _, g := range c.Groups() {
		for _, item := range g.Defaults {
			s.Set(g.ID, item, true)
		}
	}
	return s
}

// Set adds or removes item from the named group.
func (s *SelectionSets) Set(groupID, item string, selected bool) {
	set, ok := s.groups[groupID]
	if !selected {
		if ok {
			delete(set, item)
		}
		return
	}
	if !ok {
		set = make(map[string]struct{})
		s.groups[groupID] = set
	}
	set[item] = struct{}{}
}

// Has reports whether item is selected in the group.
func (s *SelectionSets) Has(groupID, item string) bool {
	if s == nil {
		return false
	}
	_, ok := s.groups[groupID][item]
	return ok
}

// Items returns the selected items of a group in sorted order.
func (s *SelectionSets) Items(groupID string) []string {
	if s == nil {
		return nil
	}
	set := s.groups[groupID]
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s *SelectionSets) Clone() *SelectionSets {
	out := NewSelectionSets()
	if s == nil {
		return out
	}
	for g, set := range s.groups {
		for item := range set {
			out.Set(g, item, true)
		}
	}
	return out
}

package filing

import "sort"

// ItemID identifies something the user can flag as filled in: a plain
// sub-item id such as "wage-statements", or a group item synthesized at
// runtime such as "general-expenses-insurance". IDs are deliberately not
// validated against the catalog.
type ItemID string

// SubItemID returns the completion id of a catalog sub-item.
func SubItemID(subID string) ItemID {
	return ItemID(subID)
}

// GroupItemID returns the completion id of an option chosen in a group.
func GroupItemID(groupID, itemID string) ItemID {
	return ItemID(GroupItemAddress(groupID, itemID).String())
}

// CompletionSet holds the item ids the user has marked as done. Presence is
// the only signal; there is no partial completion.
type CompletionSet struct {
	ids map[ItemID]struct{}
}

// NewCompletionSet returns a set seeded with the given ids.
func NewCompletionSet(seed ...ItemID) *CompletionSet {
	c := &CompletionSet{ids: make(map[ItemID]struct{}, len(seed))}
	for _, id := range seed {
		c.ids[id] = struct{}{}
	}
	return c
}

// Toggle adds id when done is true and removes it otherwise. Both
// directions are idempotent.
func (c *CompletionSet) Toggle(id ItemID, done bool) {
	if done {
		c.ids[id] = struct{}{}
		return
	}
	delete(c.ids, id)
}

// Has reports whether id is marked done. A nil set has nothing done.
func (c *CompletionSet) Has(id ItemID) bool {
	if c == nil {
		return false
	}
	_, ok := c.ids[id]
	return ok
}

// Len returns the number of completed items.
func (c *CompletionSet) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// IDs returns the completed ids in sorted order.
func (c *CompletionSet) IDs() []ItemID {
	if c == nil {
		return nil
	}
	out := make([]ItemID, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (c *CompletionSet) Clone() *CompletionSet {
	return NewCompletionSet(c.IDs()...)
}

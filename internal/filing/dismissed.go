package filing

// DismissedSet records finding ids the user closed, per kind. It lives for
// one wizard session only and is never persisted.
type DismissedSet struct {
	ids map[Kind]map[string]struct{}
}

// NewDismissedSet returns an empty set.
func NewDismissedSet() *DismissedSet {
	return &DismissedSet{ids: make(map[Kind]map[string]struct{})}
}

// Dismiss hides the finding id of the given kind.
func (d *DismissedSet) Dismiss(kind Kind, id string) {
	set, ok := d.ids[kind]
	if !ok {
		set = make(map[string]struct{})
		d.ids[kind] = set
	}
	set[id] = struct{}{}
}

// IsDismissed reports whether id of the given kind was dismissed.
func (d *DismissedSet) IsDismissed(kind Kind, id string) bool {
	if d == nil {
		return false
	}
	_, ok := d.ids[kind][id]
	return ok
}

// Len returns the number of dismissed ids across all kinds.
func (d *DismissedSet) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, set := range d.ids {
		n += len(set)
	}
	return n
}

// Visible filters out dismissed findings, preserving order.
func (d *DismissedSet) Visible(kind Kind, all []Finding) []Finding {
	out := make([]Finding, 0, len(all))
	for _, f := range all {
		if d.IsDismissed(kind, f.ID) {
			continue
		}
		out = append(out, f)
	}
	return out
}

package filing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedAddress is returned when an address string does not resolve
// against the catalog. It signals a programming fault, not a user finding.
var ErrMalformedAddress = errors.New("malformed address")

// AddressKind tags which variant an Address holds.
type AddressKind int

const (
	AddrTopic AddressKind = iota
	AddrSubItem
	AddrGroupItem
)

// String returns the lowercase name of the kind.
func (k AddressKind) String() string {
	switch k {
	case AddrTopic:
		return "topic"
	case AddrSubItem:
		return "subitem"
	case AddrGroupItem:
		return "groupitem"
	default:
		return "unknown"
	}
}

// Address points at a place in the navigation tree: a topic, a sub-item of
// a topic, or an option chosen inside a multi-select group.
type Address struct {
	Kind    AddressKind
	Topic   string
	SubItem string
	Group   string
	Item    string
}

// TopicAddress addresses a top-level topic.
func TopicAddress(topicID string) Address {
	return Address{Kind: AddrTopic, Topic: topicID}
}

// SubItemAddress addresses a sub-item detail view.
func SubItemAddress(topicID, subID string) Address {
	return Address{Kind: AddrSubItem, Topic: topicID, SubItem: subID}
}

// GroupItemAddress addresses an option chosen in a multi-select group.
func GroupItemAddress(groupID, itemID string) Address {
	return Address{Kind: AddrGroupItem, Topic: topicOf(groupID), Group: groupID, Item: itemID}
}

// String encodes the address as "<topic>", "<topic>-<sub>" or
// "<group>-<item>".
func (a Address) String() string {
	switch a.Kind {
	case AddrSubItem:
		return a.Topic + "-" + a.SubItem
	case AddrGroupItem:
		return a.Group + "-" + a.Item
	default:
		return a.Topic
	}
}

// TopicID returns the top-level topic the address lives under. It always
// equals the encoded string up to the first hyphen.
func (a Address) TopicID() string {
	if a.Kind == AddrGroupItem {
		return topicOf(a.Group)
	}
	return a.Topic
}

// ParseAddress decodes an address string. Group prefixes win over
// topic-sub-item splits, so "other-income-interest" is a group item while
// "other-income" is the sub-item hosting that group.
func (c *Catalog) ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty", ErrMalformedAddress)
	}

	for _, g := range c.byPrefix {
		rest, ok := strings.CutPrefix(s, g.ID+"-")
		if !ok || rest == "" {
			continue
		}
		if _, ok := g.Option(rest); !ok {
			return Address{}, fmt.Errorf("%w: %q is not an option of group %s", ErrMalformedAddress, rest, g.ID)
		}
		return GroupItemAddress(g.ID, rest), nil
	}

	topicID, subID, hasSub := strings.Cut(s, "-")
	t, ok := c.Topic(topicID)
	if !ok {
		return Address{}, fmt.Errorf("%w: unknown topic %q", ErrMalformedAddress, topicID)
	}
	if !hasSub {
		return TopicAddress(t.ID), nil
	}
	if _, ok := c.SubItem(topicID, subID); !ok {
		return Address{}, fmt.Errorf("%w: topic %s has no sub-item %q", ErrMalformedAddress, topicID, subID)
	}
	return SubItemAddress(topicID, subID), nil
}

// MustParseAddress is like ParseAddress but panics on failure. Intended for
// addresses built from catalog constants.
func (c *Catalog) MustParseAddress(s string) Address {
	a, err := c.ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

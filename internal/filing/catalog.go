package filing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SubItem is a leaf task inside a Topic that asks the user for input.
type SubItem struct {
	ID     string
	Label  string
	Amount *decimal.Decimal // illustrative lump sum, nil when the item has none
}

// Topic is a top-level filing category in the wizard's left navigation.
type Topic struct {
	ID          string
	Label       string
	HasSubItems bool
	SubItems    []SubItem
	Help        string // markdown, shown in the explain panel
}

// Option is one optional sub-topic a user can opt into within a Group.
type Option struct {
	ID    string
	Label string
}

// Group is a multi-select topic group. Its ID is always the composite
// address "<topic>-<subitem>" of the sub-item that hosts the selection.
type Group struct {
	ID       string
	Topic    string
	Label    string
	Options  []Option
	Defaults []string
}

// Option returns the option with the given id.
func (g Group) Option(id string) (Option, bool) {
	for _, o := range g.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Catalog is the static registry of topics and selection groups. It is
// immutable once built.
type Catalog struct {
	topics []Topic
	groups []Group

	topicIdx map[string]int
	groupIdx map[string]int
	// groups sorted by descending id length, for prefix matching
	byPrefix []Group
}

// NewCatalog indexes the given topics and groups.
func NewCatalog(topics []Topic, groups []Group) *Catalog {
	c := &Catalog{
		topics:   topics,
		groups:   groups,
		topicIdx: make(map[string]int, len(topics)),
		groupIdx: make(map[string]int, len(groups)),
	}
	for i, t := range topics {
		c.topicIdx[t.ID] = i
	}
	for i, g := range groups {
		c.groupIdx[g.ID] = i
	}
	c.byPrefix = append([]Group(nil), groups...)
	sort.SliceStable(c.byPrefix, func(i, j int) bool {
		return len(c.byPrefix[i].ID) > len(c.byPrefix[j].ID)
	})
	return c
}

// Topics returns all topics in navigation order.
func (c *Catalog) Topics() []Topic {
	return c.topics
}

// Groups returns all multi-select groups.
func (c *Catalog) Groups() []Group {
	return c.groups
}

// Topic looks up a topic by id.
func (c *Catalog) Topic(id string) (Topic, bool) {
	i, ok := c.topicIdx[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// SubItem looks up a sub-item scoped to its parent topic.
func (c *Catalog) SubItem(topicID, subID string) (SubItem, bool) {
	t, ok := c.Topic(topicID)
	if !ok {
		return SubItem{}, false
	}
	for _, s := range t.SubItems {
		if s.ID == subID {
			return s, true
		}
	}
	return SubItem{}, false
}

// Group looks up a multi-select group by id.
func (c *Catalog) Group(id string) (Group, bool) {
	i, ok := c.groupIdx[id]
	if !ok {
		return Group{}, false
	}
	return c.groups[i], true
}

// Label returns a human readable label for an address string, falling back
// to the raw string when it cannot be resolved.
func (c *Catalog) Label(addr string) string {
	a, err := c.ParseAddress(addr)
	if err != nil {
		return addr
	}
	switch a.Kind {
	case AddrTopic:
		t, _ := c.Topic(a.Topic)
		return t.Label
	case AddrSubItem:
		t, _ := c.Topic(a.Topic)
		s, _ := c.SubItem(a.Topic, a.SubItem)
		return t.Label + " › " + s.Label
	case AddrGroupItem:
		g, _ := c.Group(a.Group)
		o, _ := g.Option(a.Item)
		return g.Label + " › " + o.Label
	}
	return addr
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// Topic and group ids referenced by the rule engine.
const (
	TopicPersonal = "personal"
	TopicEmployee = "employee"
	TopicOther    = "other"
	TopicGeneral  = "general"
	TopicOverview = "overview"

	GroupOtherIncome     = "other-income"
	GroupGeneralExpenses = "general-expenses"
	GroupOtherTopics     = "other-topics"
)

// DefaultCatalog returns the topic tree of the Steuererklärung wizard.
// Amounts are placeholders, not tax law.
func DefaultCatalog() *Catalog {
	topics := []Topic{
		{
			ID:          TopicPersonal,
			Label:       "Persönliche Angaben",
			HasSubItems: true,
			SubItems: []SubItem{
				{ID: "status", Label: "Familienstand"},
				{ID: "address", Label: "Anschrift"},
				{ID: "tax-id", Label: "Steuer-ID"},
				{ID: "bank", Label: "Bankverbindung"},
			},
			Help: "Name, Anschrift und **Familienstand** bestimmen die Veranlagungsart.",
		},
		{
			ID:          TopicEmployee,
			Label:       "Arbeitnehmer",
			HasSubItems: true,
			SubItems: []SubItem{
				{ID: "wage-statements", Label: "Lohnsteuerbescheinigungen"},
				{ID: "commute", Label: "Fahrten zur Arbeit"},
				{ID: "home-office", Label: "Homeoffice", Amount: amount("1260")},
				{ID: "work-equipment", Label: "Arbeitsmittel", Amount: amount("110")},
				{ID: "phone-internet", Label: "Telefon & Internet", Amount: amount("240")},
				{ID: "account-fees", Label: "Kontoführung", Amount: amount("16")},
				{ID: "application-costs", Label: "Bewerbungskosten"},
				{ID: "unions", Label: "Gewerkschaftsbeiträge"},
				{ID: "relocation", Label: "Umzug"},
				{ID: "travel", Label: "Dienstreisen"},
			},
			Help: "Werbungskosten mindern das zu versteuernde Einkommen. " +
				"Die Angaben aus der *Lohnsteuerbescheinigung* werden übernommen.",
		},
		{
			ID:          TopicOther,
			Label:       "Weitere Einkünfte & Themen",
			HasSubItems: true,
			SubItems: []SubItem{
				{ID: "income", Label: "Weitere Einkünfte"},
				{ID: "topics", Label: "Weitere Themen"},
			},
			Help: "Wähle nur die Themen aus, die **dich** betreffen.",
		},
		{
			ID:          TopicGeneral,
			Label:       "Allgemeine Ausgaben",
			HasSubItems: true,
			SubItems: []SubItem{
				{ID: "expenses", Label: "Sonderausgaben & Belastungen"},
			},
			Help: "Versicherungen, Spenden und Kinderbetreuung als Sonderausgaben.",
		},
		{
			ID:    TopicOverview,
			Label: "Übersicht",
			Help:  "Zusammenfassung aller erfassten Angaben.",
		},
	}

	groups := []Group{
		{
			ID:    GroupOtherIncome,
			Topic: TopicOther,
			Label: "Weitere Einkünfte",
			Options: []Option{
				{ID: "interest", Label: "Zinsen & Kapitalerträge"},
				{ID: "rental", Label: "Vermietung"},
				{ID: "pension", Label: "Renten"},
				{ID: "wage-replacement", Label: "Lohnersatzleistungen"},
				{ID: "self-employment", Label: "Selbständige Arbeit"},
			},
		},
		{
			ID:    GroupGeneralExpenses,
			Topic: TopicGeneral,
			Label: "Allgemeine Ausgaben",
			Options: []Option{
				{ID: "insurance", Label: "Versicherungen"},
				{ID: "utilities", Label: "Nebenkosten"},
				{ID: "donations", Label: "Spenden"},
				{ID: "church-tax", Label: "Kirchensteuer"},
				{ID: "childcare", Label: "Kinderbetreuung"},
				{ID: "craftsman", Label: "Handwerkerleistungen"},
			},
			Defaults: []string{"insurance", "utilities"},
		},
		{
			ID:    GroupOtherTopics,
			Topic: TopicOther,
			Label: "Weitere Themen",
			Options: []Option{
				{ID: "children", Label: "Kinder"},
				{ID: "disability", Label: "Behinderung"},
				{ID: "maintenance", Label: "Unterhalt"},
				{ID: "household-services", Label: "Haushaltsnahe Dienstleistungen"},
			},
		},
	}

	return NewCatalog(topics, groups)
}

// topicOf returns the topic segment of a composite id.
func topicOf(id string) string {
	topic, _, _ := strings.Cut(id, "-")
	return topic
}

package filing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies a Finding by severity.
type Kind int

const (
	KindError   Kind = iota // blocking
	KindProblem             // warning
	KindHint                // informational
)

// Kinds returns all kinds in display order.
func Kinds() []Kind {
	return []Kind{KindError, KindProblem, KindHint}
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindProblem:
		return "problem"
	case KindHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Severity returns the severity label of the kind.
func (k Kind) Severity() string {
	switch k {
	case KindError:
		return "blocking"
	case KindProblem:
		return "warning"
	case KindHint:
		return "informational"
	default:
		return "unknown"
	}
}

// Finding is a derived message pointing at an incomplete or risky input
// area. Category is an encoded Address of the originating input screen.
type Finding struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Kind        Kind   `json:"-" yaml:"-"`
}

// Findings groups the three ordered lists produced by the engine.
type Findings struct {
	Errors   []Finding `json:"errors" yaml:"errors"`
	Problems []Finding `json:"problems" yaml:"problems"`
	Hints    []Finding `json:"hints" yaml:"hints"`
}

// ByKind returns the list for a kind.
func (f Findings) ByKind(k Kind) []Finding {
	switch k {
	case KindError:
		return f.Errors
	case KindProblem:
		return f.Problems
	case KindHint:
		return f.Hints
	}
	return nil
}

// Total returns the number of findings across all kinds.
func (f Findings) Total() int {
	return len(f.Errors) + len(f.Problems) + len(f.Hints)
}

// Relocation holds the illustrative details of a move.
type Relocation struct {
	Date        string
	Address     string
	Street      string
	HouseNumber string
	Costs       decimal.Decimal
}

// Facts stands in for real tax-compliance data the rules would consult.
// Every value is a placeholder.
type Facts struct {
	TaxpayerName      string
	Relocation        Relocation
	CommuteDistanceKm int
	// Amounts recorded per group item, keyed by GroupItemID.
	Amounts map[ItemID]decimal.Decimal
}

// DefaultFacts returns facts with nothing recorded.
func DefaultFacts(taxpayer string) Facts {
	return Facts{
		TaxpayerName: taxpayer,
		Amounts:      make(map[ItemID]decimal.Decimal),
	}
}

// hintedSubItems are the employee items nudged while untouched. The order
// is the display order.
var hintedSubItems = []struct {
	id    string
	title string
	desc  string
}{
	{"commute", "Fahrtkosten ansetzen", "Die Entfernungspauschale gilt ab dem ersten Kilometer."},
	{"home-office", "Homeoffice-Pauschale prüfen", "Für jeden Tag im **Homeoffice** kann eine Tagespauschale angesetzt werden."},
	{"phone-internet", "Telefon- und Internetkosten", "Ein beruflicher Anteil deiner Telefonkosten ist absetzbar."},
	{"account-fees", "Kontoführungsgebühren", "Ohne Nachweis wird eine kleine Pauschale anerkannt."},
	{"application-costs", "Bewerbungskosten", "Kosten für Bewerbungen im Steuerjahr sind Werbungskosten."},
	{"unions", "Gewerkschaftsbeiträge", "Beiträge an Gewerkschaften und Berufsverbände sind absetzbar."},
}

// Engine derives findings from completion and selection state. All methods
// are pure: they never mutate their inputs and never panic on missing data.
type Engine struct {
	catalog *Catalog
	facts   Facts
}

// NewEngine returns an engine over the catalog and facts.
func NewEngine(c *Catalog, facts Facts) *Engine {
	return &Engine{catalog: c, facts: facts}
}

// Facts returns the facts the engine evaluates against.
func (e *Engine) Facts() Facts {
	return e.facts
}

// Detect runs all three derivations.
func (e *Engine) Detect(done *CompletionSet, sel *SelectionSets) Findings {
	return Findings{
		Errors:   e.DetectErrors(done, sel),
		Problems: e.DetectProblems(done, sel),
		Hints:    e.DetectHints(done, sel),
	}
}

// DetectErrors returns blocking findings.
func (e *Engine) DetectErrors(done *CompletionSet, sel *SelectionSets) []Finding {
	var out []Finding
	add := func(id, title, desc string, at Address) {
		out = append(out, Finding{ID: id, Title: title, Description: desc, Category: at.String(), Kind: KindError})
	}

	// Personal status is not validated yet and is always reported.
	add("personal-status-incomplete",
		fmt.Sprintf("Persönliche Angaben von %s unvollständig", e.taxpayer()),
		"Der Familienstand muss für die Veranlagung bestätigt werden.",
		SubItemAddress(TopicPersonal, "status"))

	if !done.Has(SubItemID("wage-statements")) {
		add("gross-wage-empty", "Bruttoarbeitslohn fehlt",
			"Übernimm die Werte aus deiner Lohnsteuerbescheinigung.",
			SubItemAddress(TopicEmployee, "wage-statements"))
	}

	if done.Has(SubItemID("relocation")) {
		at := SubItemAddress(TopicEmployee, "relocation")
		r := e.facts.Relocation
		if r.Date == "" {
			add("relocation-date-empty", "Umzugsdatum fehlt", "Gib das Datum des Umzugs an.", at)
		}
		if r.Address == "" {
			add("relocation-address-empty", "Neue Anschrift fehlt", "Gib Postleitzahl und Ort der neuen Wohnung an.", at)
		}
		if r.Street == "" {
			add("relocation-street-empty", "Straße fehlt", "Gib die Straße der neuen Wohnung an.", at)
		}
	}

	e.eachSelected(sel, func(g Group, o Option) {
		if done.Has(GroupItemID(g.ID, o.ID)) {
			return
		}
		add(o.ID+"-empty",
			fmt.Sprintf("%s: keine Angaben", o.Label),
			fmt.Sprintf("Du hast **%s** ausgewählt, aber noch nichts eingetragen.", o.Label),
			GroupItemAddress(g.ID, o.ID))
	})

	return out
}

// DetectProblems returns non-blocking advisory findings.
func (e *Engine) DetectProblems(done *CompletionSet, sel *SelectionSets) []Finding {
	var out []Finding
	add := func(id, title, desc string, at Address) {
		out = append(out, Finding{ID: id, Title: title, Description: desc, Category: at.String(), Kind: KindProblem})
	}

	if done.Has(SubItemID("relocation")) {
		at := SubItemAddress(TopicEmployee, "relocation")
		r := e.facts.Relocation
		if r.Costs.IsZero() {
			add("relocation-costs-empty", "Umzugskosten 0 €",
				"Bist du sicher, dass keine Umzugskosten angefallen sind?", at)
		}
		if r.HouseNumber == "" {
			add("relocation-house-number-empty", "Hausnummer fehlt",
				"Ohne Hausnummer kann die Anschrift nicht geprüft werden.", at)
		}
	}

	if done.Has(SubItemID("commute")) && e.facts.CommuteDistanceKm == 0 {
		add("commute-distance-zero", "Entfernung 0 km",
			"Die einfache Entfernung zur ersten Tätigkeitsstätte ist 0 km. Bitte prüfen.",
			SubItemAddress(TopicEmployee, "commute"))
	}

	e.eachSelected(sel, func(g Group, o Option) {
		id := GroupItemID(g.ID, o.ID)
		if !done.Has(id) {
			return
		}
		if amt := e.facts.Amounts[id]; amt.IsZero() {
			add(o.ID+"-amount-zero",
				fmt.Sprintf("%s: Betrag 0 €", o.Label),
				"Als erledigt markiert, aber ohne Betrag. Stimmt das?",
				GroupItemAddress(g.ID, o.ID))
		}
	})

	return out
}

// DetectHints returns informational nudges toward untouched optional topics.
func (e *Engine) DetectHints(done *CompletionSet, sel *SelectionSets) []Finding {
	var out []Finding
	add := func(id, title, desc string, at Address) {
		out = append(out, Finding{ID: id, Title: title, Description: desc, Category: at.String(), Kind: KindHint})
	}

	for _, h := range hintedSubItems {
		if done.Has(SubItemID(h.id)) {
			continue
		}
		add(h.id+"-hint", h.title, h.desc, SubItemAddress(TopicEmployee, h.id))
	}

	if sel.Has(GroupOtherIncome, "wage-replacement") &&
		!done.Has(GroupItemID(GroupOtherIncome, "wage-replacement")) {
		add("wage-replacement-missing", "Lohnersatzleistungen eintragen",
			"Elterngeld oder Kurzarbeitergeld unterliegen dem Progressionsvorbehalt.",
			GroupItemAddress(GroupOtherIncome, "wage-replacement"))
	}

	if sel.Has(GroupOtherTopics, "children") && !sel.Has(GroupGeneralExpenses, "childcare") {
		add("childcare-suggested", "Kinderbetreuungskosten",
			"Mit Kindern lohnt sich ein Blick auf die Kinderbetreuungskosten.",
			GroupItemAddress(GroupGeneralExpenses, "childcare"))
	}

	return out
}

// eachSelected visits every selected option in catalog order.
func (e *Engine) eachSelected(sel *SelectionSets, fn func(Group, Option)) {
	for _, g := range e.catalog.Groups() {
		for _, o := range g.Options {
			if sel.Has(g.ID, o.ID) {
				fn(g, o)
			}
		}
	}
}

func (e *Engine) taxpayer() string {
	if e.facts.TaxpayerName == "" {
		return "Steuerpflichtige/r"
	}
	return e.facts.TaxpayerName
}

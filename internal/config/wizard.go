package config

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/steuerklar/steuerklar/internal/filing"
)

// WizardFacts converts the configured facts into rule-engine facts for the given
// taxpayer name. Amounts are decimal strings keyed by group item id
// ("general-expenses-insurance").
func (c *Config) WizardFacts(taxpayer string) (filing.Facts, error) {
	facts := filing.DefaultFacts(taxpayer)
	facts.CommuteDistanceKm = c.Facts.CommuteDistanceKm

	r := c.Facts.Relocation
	facts.Relocation = filing.Relocation{
		Date:        r.Date,
		Address:     r.Address,
		Street:      r.Street,
		HouseNumber: r.HouseNumber,
	}
	if r.Costs != "" {
		costs, err := decimal.NewFromString(r.Costs)
		if err != nil {
			return filing.Facts{}, fmt.Errorf("facts.relocation.costs: %w", err)
		}
		facts.Relocation.Costs = costs
	}

	for id, raw := range c.Facts.Amounts {
		amt, err := decimal.NewFromString(raw)
		if err != nil {
			return filing.Facts{}, fmt.Errorf("facts.amounts.%s: %w", id, err)
		}
		facts.Amounts[filing.ItemID(id)] = amt
	}
	return facts, nil
}

// WizardOptions builds the options for a new filing wizard.
func (c *Config) WizardOptions(taxpayer string) (filing.Options, error) {
	facts, err := c.WizardFacts(taxpayer)
	if err != nil {
		return filing.Options{}, err
	}

	opts := filing.Options{
		Catalog:        filing.DefaultCatalog(),
		Facts:          facts,
		SeedSelections: c.Defaults.Selections,
	}
	if c.Defaults.Completed != nil {
		opts.SeedCompleted = make([]filing.ItemID, 0, len(c.Defaults.Completed))
		for _, id := range c.Defaults.Completed {
			opts.SeedCompleted = append(opts.SeedCompleted, filing.ItemID(id))
		}
	}
	return opts, nil
}

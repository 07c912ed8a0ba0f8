package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steuerklar/steuerklar/internal/appointments"
	"github.com/steuerklar/steuerklar/internal/config"
	"github.com/steuerklar/steuerklar/internal/filing"
	"github.com/steuerklar/steuerklar/internal/messages"
)

// registerChecks registers the doctor checks across four categories.
func (c *Checker) registerChecks() {
	// Config checks
	c.add("config-valid", "config", c.checkConfigValid)
	c.add("taxpayer", "config", c.checkTaxpayer)

	// Workspace checks
	c.add("documents-dir", "workspace", c.checkDocumentsDir)
	c.add("messages-file", "workspace", c.checkMessagesFile)

	// Service checks
	c.add("appointments-db", "services", c.checkAppointmentsDB)
	c.add("messages-redis", "services", c.checkMessagesRedis)

	// Catalog checks
	c.add("catalog-addresses", "catalog", c.checkCatalogAddresses)
	c.add("rule-categories", "catalog", c.checkRuleCategories)
}

func (c *Checker) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.root, p)
}

// ---------------------------------------------------------------------------
// Config checks
// ---------------------------------------------------------------------------

func (c *Checker) checkConfigValid(ctx context.Context) CheckResult {
	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		return CheckResult{Status: StatusPass, Message: "configuration is valid"}
	}
	msg := errs[0].Error()
	if len(errs) > 1 {
		msg = fmt.Sprintf("%s (+%d more)", msg, len(errs)-1)
	}
	return CheckResult{Status: StatusFail, Message: msg}
}

func (c *Checker) checkTaxpayer(ctx context.Context) CheckResult {
	if c.cfg.Taxpayer.Name == "" {
		return CheckResult{Status: StatusWarn, Message: "no taxpayer name, findings use a placeholder"}
	}
	return CheckResult{Status: StatusPass, Message: c.cfg.Taxpayer.Name}
}

// ---------------------------------------------------------------------------
// Workspace checks
// ---------------------------------------------------------------------------

func (c *Checker) checkDocumentsDir(ctx context.Context) CheckResult {
	dir := c.resolve(c.cfg.Workspace.Documents)
	if dir == "" {
		return CheckResult{Status: StatusFail, Message: "workspace.documents is empty"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("cannot create %s", dir)}
	}
	f, err := os.CreateTemp(dir, ".tmp-doctor-*")
	if err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s is not writable", dir)}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return CheckResult{Status: StatusPass, Message: dir}
}

func (c *Checker) checkMessagesFile(ctx context.Context) CheckResult {
	if c.cfg.Messages.Sink != "file" {
		return CheckResult{Status: StatusPass, Message: "not using the file sink"}
	}
	path := c.resolve(c.cfg.Messages.Path)
	sink, err := messages.NewFileSink(path)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	sink.Close()
	return CheckResult{Status: StatusPass, Message: path}
}

// ---------------------------------------------------------------------------
// Service checks
// ---------------------------------------------------------------------------

func (c *Checker) checkAppointmentsDB(ctx context.Context) CheckResult {
	url := c.cfg.Appointments.DatabaseURL
	if url == "" {
		return CheckResult{Status: StatusWarn, Message: "not configured, example appointments are shown"}
	}
	if err := c.pingDB(ctx, url); err != nil {
		return CheckResult{Status: StatusWarn, Message: "unreachable, example appointments are shown"}
	}
	return CheckResult{Status: StatusPass, Message: "reachable"}
}

func (c *Checker) checkMessagesRedis(ctx context.Context) CheckResult {
	if c.cfg.Messages.Sink != "redis" {
		return CheckResult{Status: StatusPass, Message: "not using the redis sink"}
	}
	if err := c.pingRedis(ctx, c.cfg.Messages.RedisURL); err != nil {
		return CheckResult{Status: StatusFail, Message: fmt.Sprintf("redis unreachable: %v", err)}
	}
	return CheckResult{Status: StatusPass, Message: "stream " + c.cfg.Messages.Stream}
}

func pingPostgres(ctx context.Context, url string) error {
	pool, err := appointments.Connect(ctx, url)
	if err != nil {
		return err
	}
	pool.Close()
	return nil
}

func pingRedis(ctx context.Context, url string) error {
	client, err := messages.ConnectRedis(url)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Ping(ctx).Err()
}

// ---------------------------------------------------------------------------
// Catalog checks
// ---------------------------------------------------------------------------

// checkCatalogAddresses encodes and re-parses every address the catalog can
// produce.
func (c *Checker) checkCatalogAddresses(ctx context.Context) CheckResult {
	cat := filing.DefaultCatalog()
	var addrs []filing.Address
	for _, t := range cat.Topics() {
		addrs = append(addrs, filing.TopicAddress(t.ID))
		for _, s := range t.SubItems {
			addrs = append(addrs, filing.SubItemAddress(t.ID, s.ID))
		}
	}
	for _, g := range cat.Groups() {
		for _, o := range g.Options {
			addrs = append(addrs, filing.GroupItemAddress(g.ID, o.ID))
		}
	}

	for _, a := range addrs {
		back, err := cat.ParseAddress(a.String())
		if err != nil {
			return CheckResult{Status: StatusFail, Message: err.Error()}
		}
		if back != a {
			return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s parses as %s", a, back)}
		}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d addresses round-trip", len(addrs))}
}

// checkRuleCategories runs the rule engine with every group item selected
// and verifies that every finding points at a real input screen.
func (c *Checker) checkRuleCategories(ctx context.Context) CheckResult {
	cat := filing.DefaultCatalog()
	sel := filing.NewSelectionSets()
	for _, g := range cat.Groups() {
		for _, o := range g.Options {
			sel.Set(g.ID, o.ID, true)
		}
	}
	done := filing.NewCompletionSet(filing.SubItemID("relocation"), filing.SubItemID("commute"))

	all := filing.NewEngine(cat, filing.DefaultFacts("")).Detect(done, sel)
	for _, k := range filing.Kinds() {
		for _, f := range all.ByKind(k) {
			if _, err := cat.ParseAddress(f.Category); err != nil {
				return CheckResult{Status: StatusFail, Message: fmt.Sprintf("%s: %v", f.ID, err)}
			}
		}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%d findings resolve", all.Total())}
}

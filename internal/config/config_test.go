package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/steuerklar/steuerklar/internal/filing"
)

const sampleYAML = `taxpayer:
  name: Erika Mustermann
  email: erika@example.de
years: [2024, 2023]
workspace:
  documents: docs
defaults:
  completed: [wage-statements, commute]
  selections:
    general-expenses: [insurance]
facts:
  commuteDistanceKm: 12
  relocation:
    costs: "850.50"
  amounts:
    general-expenses-insurance: "480"
messages:
  sink: file
  path: out/messages.jsonl
log:
  level: debug
`

func loadSample(t *testing.T, body string) (*Config, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(New(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg, dir
}

func TestLoadYAML(t *testing.T) {
	cfg, dir := loadSample(t, sampleYAML)

	if cfg.Taxpayer.Name != "Erika Mustermann" {
		t.Errorf("name = %q", cfg.Taxpayer.Name)
	}
	if len(cfg.Years) != 2 || cfg.Years[0] != 2024 {
		t.Errorf("years = %v", cfg.Years)
	}
	if cfg.Facts.CommuteDistanceKm != 12 {
		t.Errorf("distance = %d", cfg.Facts.CommuteDistanceKm)
	}
	// defaults still apply to keys the file does not set
	if cfg.Appointments.TimeoutSec != 5 {
		t.Errorf("timeout = %d", cfg.Appointments.TimeoutSec)
	}
	if Get() != cfg {
		t.Error("Get should return the cached config")
	}
	wantRoot, _ := filepath.Abs(dir)
	if Root() != wantRoot {
		t.Errorf("root = %q, want %q", Root(), wantRoot)
	}
	if got := Resolve("docs"); got != filepath.Join(wantRoot, "docs") {
		t.Errorf("Resolve = %q", got)
	}
	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "nope.yaml")))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STEUERKLAR_TAXPAYER_NAME", "Max Mustermann")
	cfg, _ := loadSample(t, sampleYAML)
	if cfg.Taxpayer.Name != "Max Mustermann" {
		t.Errorf("name = %q", cfg.Taxpayer.Name)
	}
}

func TestWizardOptions(t *testing.T) {
	cfg, _ := loadSample(t, sampleYAML)

	opts, err := cfg.WizardOptions("Erika")
	if err != nil {
		t.Fatal(err)
	}
	w := filing.NewWizard(opts)
	w.SelectYear(2024)

	if !w.IsComplete("commute") || !w.IsComplete("wage-statements") {
		t.Error("configured completion seed not applied")
	}
	if w.IsSelected(filing.GroupGeneralExpenses, "utilities") {
		t.Error("configured selections replace the catalog defaults")
	}
	if !w.IsSelected(filing.GroupGeneralExpenses, "insurance") {
		t.Error("insurance should be selected")
	}
	id := filing.GroupItemID(filing.GroupGeneralExpenses, "insurance")
	if w.Amount(id).IntPart() != 480 {
		t.Errorf("amount = %s", w.Amount(id))
	}
	if opts.Facts.Relocation.Costs.String() != "850.5" {
		t.Errorf("costs = %s", opts.Facts.Relocation.Costs)
	}
}

func TestWizardOptionsRejectsBadAmount(t *testing.T) {
	cfg := &Config{Facts: FactsConfig{Amounts: map[string]string{"general-expenses-insurance": "viel"}}}
	if _, err := cfg.WizardOptions("x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Taxpayer: TaxpayerConfig{Email: "not-an-email"},
		Years:    []int{2024, -1},
		Defaults: DefaultsConfig{Selections: map[string][]string{
			"general-expenses": {"yacht"},
			"lottery":          {"win"},
		}},
		Facts:        FactsConfig{CommuteDistanceKm: -3, Amounts: map[string]string{"x": "abc"}},
		Appointments: AppointmentsConfig{DatabaseURL: "mysql://db", TimeoutSec: 0},
		Messages:     MessagesConfig{Sink: "carrier-pigeon"},
		Log:          LogConfig{Level: "loud"},
	}

	got := make(map[string]bool)
	for _, e := range Validate(cfg) {
		got[e.Field] = true
	}
	for _, field := range []string{
		"taxpayer.name",
		"taxpayer.email",
		"years[1]",
		"workspace.documents",
		"defaults.selections.general-expenses",
		"defaults.selections.lottery",
		"facts.commuteDistanceKm",
		"facts.amounts.x",
		"appointments.databaseURL",
		"appointments.timeoutSec",
		"messages.sink",
		"log.level",
	} {
		if !got[field] {
			t.Errorf("missing validation error for %s", field)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, _ := loadSample(t, sampleYAML)
	dir := t.TempDir()

	path, err := Save(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Erika Mustermann") {
		t.Errorf("saved config lacks taxpayer:\n%s", data)
	}

	again, err := Load(New(path))
	if err != nil {
		t.Fatal(err)
	}
	if again.Facts.Amounts["general-expenses-insurance"] != "480" {
		t.Errorf("amounts = %v", again.Facts.Amounts)
	}
}

func TestPaths(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		Workspace: WorkspaceConfig{Documents: "docs"},
		Messages:  MessagesConfig{Sink: "file", Path: "out/messages.jsonl"},
		Log:       LogConfig{File: "logs/app.log"},
	}
	p := NewPaths(root, cfg)
	if err := EnsureDirectories(p); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"docs", "out", "logs"} {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Errorf("%s not created", d)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Years) != 3 || cfg.Years[0] != 2024 {
		t.Errorf("Years = %v", cfg.Years)
	}
	if got := cfg.Defaults.Selections["general-expenses"]; len(got) != 2 {
		t.Errorf("general-expenses defaults = %v", got)
	}
	if cfg.Messages.Sink != "file" || cfg.Log.Level != "info" {
		t.Errorf("sink=%q level=%q", cfg.Messages.Sink, cfg.Log.Level)
	}
	errs := Validate(cfg)
	if len(errs) != 1 || errs[0].Field != "taxpayer.name" {
		t.Errorf("defaults should only lack a taxpayer name, got %v", errs)
	}
}

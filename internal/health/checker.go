package health

import (
	"context"
	"sync"
	"time"

	"github.com/steuerklar/steuerklar/internal/config"
)

// Status is the outcome of one check.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
)

var statusText = [...]struct{ word, glyph string }{
	StatusPass: {"pass", "✓"},
	StatusWarn: {"warn", "!"},
	StatusFail: {"fail", "✗"},
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusText) {
		return "unknown"
	}
	return statusText[s].word
}

// Symbol is the single-glyph form used in the doctor table.
func (s Status) Symbol() string {
	if s < 0 || int(s) >= len(statusText) {
		return "?"
	}
	return statusText[s].glyph
}

// CheckResult is what a check reports back. Name, Category and Duration are
// filled in by the runner.
type CheckResult struct {
	Name     string
	Category string
	Status   Status
	Message  string
	Duration time.Duration
}

// Report aggregates the results of one doctor run, in registration order.
type Report struct {
	Results  []CheckResult
	Passed   int
	Warned   int
	Failed   int
	Total    int
	Duration time.Duration
	Healthy  bool
}

type check struct {
	name     string
	category string
	fn       func(ctx context.Context) CheckResult
}

// Checker diagnoses a workspace: its config, directories, the appointment
// database, the message sink and the built-in topic catalog.
type Checker struct {
	cfg     *config.Config
	root    string
	timeout time.Duration
	checks  []check

	pingDB    func(ctx context.Context, url string) error
	pingRedis func(ctx context.Context, url string) error
}

// NewChecker builds a checker for cfg. Relative paths resolve against root.
// Each check gets the appointment timeout as its own deadline.
func NewChecker(cfg *config.Config, root string) *Checker {
	timeout := 5 * time.Second
	if cfg.Appointments.TimeoutSec > 0 {
		timeout = time.Duration(cfg.Appointments.TimeoutSec) * time.Second
	}
	c := &Checker{
		cfg:       cfg,
		root:      root,
		timeout:   timeout,
		pingDB:    pingPostgres,
		pingRedis: pingRedis,
	}
	c.registerChecks()
	return c
}

func (c *Checker) add(name, category string, fn func(ctx context.Context) CheckResult) {
	c.checks = append(c.checks, check{name: name, category: category, fn: fn})
}

// Names lists the registered checks.
func (c *Checker) Names() []string {
	out := make([]string, len(c.checks))
	for i, ch := range c.checks {
		out[i] = ch.name
	}
	return out
}

// RunAll runs every check.
func (c *Checker) RunAll(ctx context.Context) *Report {
	return c.run(ctx, func(check) bool { return true })
}

// RunCategory runs the checks of one category. An unknown category yields
// an empty report.
func (c *Checker) RunCategory(ctx context.Context, category string) *Report {
	return c.run(ctx, func(ch check) bool { return ch.category == category })
}

// RunCheck runs a single check by name.
func (c *Checker) RunCheck(ctx context.Context, name string) *Report {
	return c.run(ctx, func(ch check) bool { return ch.name == name })
}

// run executes the selected checks concurrently. Service pings dominate the
// wall time, so they should not queue behind each other.
func (c *Checker) run(ctx context.Context, keep func(check) bool) *Report {
	start := time.Now()

	var selected []check
	for _, ch := range c.checks {
		if keep(ch) {
			selected = append(selected, ch)
		}
	}

	results := make([]CheckResult, len(selected))
	var wg sync.WaitGroup
	for i, ch := range selected {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.runOne(ctx, ch)
		}()
	}
	wg.Wait()

	r := &Report{Results: results, Total: len(results), Duration: time.Since(start)}
	for _, res := range results {
		switch res.Status {
		case StatusPass:
			r.Passed++
		case StatusWarn:
			r.Warned++
		case StatusFail:
			r.Failed++
		}
	}
	r.Healthy = r.Failed == 0
	return r
}

func (c *Checker) runOne(ctx context.Context, ch check) CheckResult {
	var res CheckResult
	if err := ctx.Err(); err != nil {
		res = CheckResult{Status: StatusFail, Message: "not run: " + err.Error()}
	} else {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		t := time.Now()
		res = ch.fn(cctx)
		res.Duration = time.Since(t)
		cancel()
	}
	res.Name = ch.name
	res.Category = ch.category
	return res
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/config"
	"github.com/steuerklar/steuerklar/internal/health"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var (
	doctorCheck    string
	doctorCategory string
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"health"},
	Short:   "Check configuration, workspace and services",
	Long: `Run diagnostic checks against the workspace.

Checks are grouped into categories:
  config     - config file validity, taxpayer
  workspace  - document store, message file
  services   - appointments database, redis stream
  catalog    - topic addresses, rule categories

Use --category to run only a specific group, or --check to run a single
named check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := health.NewChecker(cfg, config.Root())
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		var report *health.Report
		switch {
		case doctorCheck != "":
			report = checker.RunCheck(ctx, doctorCheck)
			if report.Total == 0 {
				return fmt.Errorf("unknown check %q (known: %v)", doctorCheck, checker.Names())
			}
		case doctorCategory != "":
			report = checker.RunCategory(ctx, doctorCategory)
			if report.Total == 0 {
				return fmt.Errorf("unknown category %q", doctorCategory)
			}
		default:
			report = checker.RunAll(ctx)
		}

		fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
		if report.Failed > 0 {
			logger.Debug("doctor found failures", "failed", report.Failed)
			fmt.Fprintln(cmd.OutOrStdout(), styles.Dim("  'steuerklar config validate' zeigt Details zur Konfiguration."))
			return fmt.Errorf("%d check(s) failed", report.Failed)
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().StringVar(&doctorCheck, "check", "", "run a specific named check")
	doctorCmd.Flags().StringVar(&doctorCategory, "category", "", "run checks in a category: config, workspace, services or catalog")
	rootCmd.AddCommand(doctorCmd)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/documents"
	"github.com/steuerklar/steuerklar/internal/tui/models"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
	"github.com/steuerklar/steuerklar/internal/tui/views"
)

var (
	fileYear    int
	fileExplain bool
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Launch the Steuererklärung wizard",
	Long: `Start the interactive filing wizard.

Pick a tax year, then work through the three steps:
  1. Eingabe      -- fill in topics and mark them done
  2. Optimierung  -- review errors, problems and hints
  3. Abgabe       -- appointments, messages and submission

Use --year to skip the year picker and --explain for help texts at every
step. Logs go to log.file because the wizard owns the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, closer, err := openLogFile()
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		id, err := currentIdentity(ctx)
		if err != nil {
			return err
		}
		wiz, err := newWizard(id, fileYear)
		if err != nil {
			return err
		}

		deps := models.FilingDeps{
			Wizard:   wiz,
			Years:    cfg.Years,
			Identity: id,
			Logger:   l,
			Explain:  fileExplain,
		}

		if store, err := openStore(l); err != nil {
			l.Warn("documents disabled", "err", err)
		} else {
			deps.Documents = store
			if w, err := documents.NewWatcher(store); err != nil {
				l.Warn("document watcher disabled", "err", err)
			} else {
				defer w.Close()
				deps.Events = w.Watch(ctx)
			}
		}

		svc, release := openAppointments(ctx, l)
		defer release()
		deps.Appointments = svc

		if sink, err := openSink(); err != nil {
			l.Warn("messages disabled", "err", err)
		} else {
			defer sink.Close()
			deps.Messages = sink
		}

		l.Info("starting wizard", "taxpayer", id.DisplayName(), "year", fileYear)
		snap, err := views.RunFiling(deps)
		if err != nil {
			return err
		}
		l.Info("wizard closed", "year", snap.Year, "step", snap.Step, "completed", len(snap.Completed), "dismissed", snap.Dismissed)

		if snap.Year > 0 {
			fmt.Println(styles.Dim(fmt.Sprintf("Sitzung %d beendet bei %s, %d Angaben erledigt.",
				snap.Year, snap.Step, len(snap.Completed))))
		}
		return nil
	},
}

func init() {
	fileCmd.Flags().IntVar(&fileYear, "year", 0, "start directly with this tax year")
	fileCmd.Flags().BoolVar(&fileExplain, "explain", false, "show help texts at every step")
	rootCmd.AddCommand(fileCmd)
}

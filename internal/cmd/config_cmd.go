package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/config"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var (
	configInitDir   string
	configInitName  string
	configInitEmail string
	configInitForce bool
	configFormat    string
)

// --- config (parent) ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Show the effective configuration (file, environment and defaults).

Subcommands:
  init       Write a config.yaml with the defaults
  validate   Check the configuration for mistakes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFormat != formatText {
			return writeOutput(cmd.OutOrStdout(), configFormat, cfg, nil)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, styles.Title.Render("Konfiguration"))
		fmt.Fprintln(w)

		row := func(label, value string) {
			fmt.Fprintf(w, "%s %s\n", styles.Label.Width(14).Render(label), styles.Value.Render(value))
		}
		row("ROOT", config.Root())
		row("TAXPAYER", cfg.Taxpayer.Name+" <"+cfg.Taxpayer.Email+">")
		years := make([]string, 0, len(cfg.Years))
		for _, y := range cfg.Years {
			years = append(years, fmt.Sprint(y))
		}
		row("YEARS", strings.Join(years, ", "))
		row("DOCUMENTS", config.Resolve(cfg.Workspace.Documents))
		row("LOG", cfg.Log.Level+"  "+config.Resolve(cfg.Log.File))
		fmt.Fprintln(w)

		fmt.Fprintln(w, styles.Divider(50))
		fmt.Fprintln(w)

		fmt.Fprintln(w, styles.Subtitle.Render("Voreinstellungen"))
		for _, id := range cfg.Defaults.Completed {
			fmt.Fprintln(w, "  "+styles.Green("✓")+" "+id)
		}
		for group, items := range cfg.Defaults.Selections {
			fmt.Fprintf(w, "  %s %s\n", styles.Bold(group), styles.Dim(strings.Join(items, ", ")))
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, styles.Subtitle.Render("Dienste"))
		db := cfg.Appointments.DatabaseURL
		if db == "" {
			db = styles.Dim("(Beispieldaten)")
		}
		row("APPOINTMENTS", db)
		switch cfg.Messages.Sink {
		case "redis":
			row("MESSAGES", "redis "+cfg.Messages.RedisURL+" "+cfg.Messages.Stream)
		default:
			row("MESSAGES", "file "+config.Resolve(cfg.Messages.Path))
		}
		return nil
	},
}

// --- config init ---

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := configInitDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir = wd
		}

		paths := config.NewPaths(dir, nil)
		if _, err := os.Stat(paths.Config); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", paths.Config)
		}

		fresh, err := config.Defaults()
		if err != nil {
			return err
		}
		fresh.Taxpayer.Name = configInitName
		fresh.Taxpayer.Email = configInitEmail

		path, err := config.Save(dir, fresh)
		if err != nil {
			return err
		}
		if err := config.EnsureDirectories(config.NewPaths(dir, fresh)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("Geschrieben:")+" "+path)
		return nil
	},
}

// --- config validate ---

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for mistakes",
	RunE: func(cmd *cobra.Command, args []string) error {
		errs := config.Validate(cfg)
		w := cmd.OutOrStdout()
		if len(errs) == 0 {
			fmt.Fprintln(w, styles.Green("Konfiguration ist gültig."))
			return nil
		}
		for _, e := range errs {
			fmt.Fprintf(w, "  %s %s %s\n", styles.Red("✗"), styles.Bold(e.Field), styles.Dim(e.Message))
		}
		return fmt.Errorf("%d configuration error(s)", len(errs))
	},
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", formatText, "output format: text, json or yaml")

	configInitCmd.Flags().StringVar(&configInitDir, "dir", "", "target directory (default: working directory)")
	configInitCmd.Flags().StringVar(&configInitName, "name", "", "taxpayer name")
	configInitCmd.Flags().StringVar(&configInitEmail, "email", "", "taxpayer email")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.yaml")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

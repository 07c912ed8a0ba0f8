package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/steuerklar/steuerklar/internal/config"
	"github.com/steuerklar/steuerklar/internal/tui/styles"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	// set by loadConfig before any subcommand runs
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "steuerklar",
	Short: "Steuererklärung im Terminal",
	Long: `steuerklar: die Steuererklärung Schritt für Schritt

Ein Assistent führt durch Eingabe, Optimierung und Abgabe. Belege,
Termine mit der Steuerberatung und Nachrichten sind angebunden.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(styles.Logo())
		fmt.Println(styles.Dim("'steuerklar file' startet den Assistenten, 'steuerklar --help' zeigt alle Befehle."))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or ~/.steuerklar/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
}

// loadConfig reads the configuration and sets up the stderr logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	c, err := config.Load(config.New(cfgFile))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = c
	logger = newLogger(os.Stderr)
	return nil
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "steuerklar",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	l.SetLevel(level)
	return l
}

// openLogFile returns a logger writing to the configured log file. The TUI
// owns the terminal, so it cannot log to stderr.
func openLogFile() (*log.Logger, io.Closer, error) {
	path := config.Resolve(cfg.Log.File)
	if path == "" {
		return log.New(io.Discard), io.NopCloser(nil), nil
	}
	paths := config.NewPaths(config.Root(), cfg)
	if err := config.EnsureDirectories(paths); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return newLogger(f), f, nil
}
